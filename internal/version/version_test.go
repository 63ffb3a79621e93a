package version

import "testing"

func TestString(t *testing.T) {
	if s := String(); s == "" {
		t.Fatalf("version string is empty")
	}
	old := Commit
	Commit = "abc1234"
	defer func() { Commit = old }()
	if s := String(); s != Version+" (abc1234)" {
		t.Fatalf("unexpected version string: %q", s)
	}
}
