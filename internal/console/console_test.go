package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterRoutesByWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Heading("Syncing tasks")
	p.Success("Moved: %d", 2)
	p.Warn("Invalid status '%s'", "bogus")
	p.Println("plain %s", "line")
	p.Error("Error moving %s", "a.yaml")

	// Buffers are not terminals, so no escape codes are emitted.
	assert.Equal(t, "Syncing tasks\nMoved: 2\nInvalid status 'bogus'\nplain line\n", out.String())
	assert.Equal(t, "Error moving a.yaml\n", errOut.String())
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		msg     string
		wantOut bool
	}{
		{msg: "Warning: Directory /x/todo does not exist", wantOut: true},
		{msg: "Error parsing /x/todo/a.yaml: bad", wantOut: false},
		{msg: "Invalid status 'bogus' in a.yaml, skipping", wantOut: true},
		{msg: "YAML error in /x/a.yaml: bad", wantOut: false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var out, errOut bytes.Buffer
			NewPrinter(&out, &errOut).Diagnostic("  - ", tt.msg)
			if tt.wantOut {
				assert.Equal(t, "  - "+tt.msg+"\n", out.String())
				assert.Empty(t, errOut.String())
			} else {
				assert.Empty(t, out.String())
				assert.Equal(t, "  - "+tt.msg+"\n", errOut.String())
			}
		})
	}
}
