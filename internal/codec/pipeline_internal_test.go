package codec

import "testing"

func TestNilLoggerIsShared(t *testing.T) {
	t.Parallel()

	var a, b Pipeline

	if a.logger() != b.logger() || a.logger() != a.logger() {
		t.Fatal("nil Logger does not fall back to a single discard logger")
	}
}
