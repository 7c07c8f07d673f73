package issue

import (
	"errors"
	"testing"
)

func TestValidateBreakVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "empty is valid", version: "", wantErr: false},
		{name: "year and month", version: "2026.8", wantErr: false},
		{name: "year month patch", version: "2026.8.2", wantErr: false},
		{name: "month twelve", version: "2026.12.0", wantErr: false},
		{name: "single part", version: "2026", wantErr: true},
		{name: "too many parts", version: "2026.8.1.3", wantErr: true},
		{name: "non-numeric year", version: "twenty.8", wantErr: true},
		{name: "year too small", version: "26.8", wantErr: true},
		{name: "month zero", version: "2026.0", wantErr: true},
		{name: "month thirteen", version: "2026.13", wantErr: true},
		{name: "non-numeric patch", version: "2026.8.x", wantErr: true},
		{name: "negative patch", version: "2026.8.-1", wantErr: true},
		{name: "semver style", version: "v1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBreakVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBreakVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBreakVersion) {
				t.Errorf("error should wrap ErrInvalidBreakVersion, got %v", err)
			}
		})
	}
}

func TestIssue_DeepCopy(t *testing.T) {
	dismissed := "2026.8"
	orig := &Issue{
		Domain:  "hub",
		IssueID: "gateway_unreachable",
		Active:  true,
		Data: map[string]any{
			"gateway": "gw-01",
			"nested":  map[string]any{"attempts": float64(3)},
		},
		DismissedVersion:        &dismissed,
		TranslationPlaceholders: map[string]string{"name": "Gateway"},
	}

	cpy := orig.DeepCopy()

	// Mutate the copy; the original must be unaffected.
	cpy.Data["gateway"] = "gw-02"
	cpy.Data["nested"].(map[string]any)["attempts"] = float64(9)
	cpy.TranslationPlaceholders["name"] = "Other"
	*cpy.DismissedVersion = "2027.1"

	if orig.Data["gateway"] != "gw-01" {
		t.Error("DeepCopy did not isolate Data map")
	}
	if orig.Data["nested"].(map[string]any)["attempts"] != float64(3) {
		t.Error("DeepCopy did not isolate nested map")
	}
	if orig.TranslationPlaceholders["name"] != "Gateway" {
		t.Error("DeepCopy did not isolate placeholders map")
	}
	if *orig.DismissedVersion != "2026.8" {
		t.Error("DeepCopy did not isolate DismissedVersion pointer")
	}
}

func TestIssue_DeepCopyNil(t *testing.T) {
	var iss *Issue
	if iss.DeepCopy() != nil {
		t.Error("DeepCopy of nil should be nil")
	}
}

func TestKey_String(t *testing.T) {
	k := Key{Domain: "media", IssueID: "token_expired"}
	if got := k.String(); got != "media/token_expired" {
		t.Errorf("Key.String() = %q, want %q", got, "media/token_expired")
	}
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range AllSeverities() {
		if !s.valid() {
			t.Errorf("severity %q should be valid", s)
		}
	}
	if !Severity("").valid() {
		t.Error("empty severity should be valid (optional field)")
	}
	if Severity("fatal").valid() {
		t.Error("unknown severity should be invalid")
	}
}
