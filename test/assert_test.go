package test

import "testing"

func TestAssertEqual(t *testing.T) {
	if !AssertEqual(t, 405, 405) {
		t.Error("equal values reported as different")
	}
	if !AssertEqual(t, "text/html", "text/html") {
		t.Error("equal strings reported as different")
	}
	if !AssertBytes(t, []byte("OK"), []byte("OK")) {
		t.Error("equal bytes reported as different")
	}
	if !AssertBytes(t, nil, []byte{}) {
		t.Error("nil and empty bytes reported as different")
	}
}
