package fingerprint

import (
	"testing"

	"github.com/google/uuid"
)

func TestCollectPopulatesFields(t *testing.T) {
	fp := Collect("probe/1.0")

	if _, err := uuid.Parse(fp.DeviceID); err != nil {
		t.Fatalf("device id is not a uuid: %q", fp.DeviceID)
	}
	if fp.DeviceName == "" || fp.DeviceType == "" || fp.OS == "" || fp.Platform == "" {
		t.Fatalf("incomplete fingerprint: %+v", fp)
	}
	if fp.Client != "probe/1.0" {
		t.Fatalf("client not carried through: %q", fp.Client)
	}
}

func TestCollectRegeneratesDeviceID(t *testing.T) {
	a := Collect("")
	b := Collect("")

	if a.DeviceID == b.DeviceID {
		t.Fatal("fingerprints must not share a device id")
	}
	if a.Client != "sessionkit" {
		t.Fatalf("empty client must default: %q", a.Client)
	}
}
