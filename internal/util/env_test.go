package util

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("IFC_TEST_STRING", "bucket")
	t.Setenv("IFC_TEST_NUMBER", "8.5")
	t.Setenv("IFC_TEST_BAD_NUMBER", "eight")
	t.Setenv("IFC_TEST_BOOL", "true")
	t.Setenv("IFC_TEST_BAD_BOOL", "yes")
	t.Setenv("IFC_TEST_DURATION", " 90s ")
	t.Setenv("IFC_TEST_LIST", "a, ,b,")

	if got := GetEnv("IFC_TEST_STRING"); got != "bucket" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("IFC_TEST_MISSING"); got != "" {
		t.Fatalf("GetEnv missing = %q", got)
	}
	if got := GetEnvString("IFC_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnvString = %q", got)
	}
	if got := GetEnvNumeric("IFC_TEST_NUMBER", 1); got != 8.5 {
		t.Fatalf("GetEnvNumeric = %v", got)
	}
	if got := GetEnvNumeric("IFC_TEST_BAD_NUMBER", 3); got != 3 {
		t.Fatalf("GetEnvNumeric invalid = %v", got)
	}
	if !GetEnvBool("IFC_TEST_BOOL", false) {
		t.Fatal("GetEnvBool expected true")
	}
	if GetEnvBool("IFC_TEST_BAD_BOOL", false) {
		t.Fatal("GetEnvBool expected the default for an invalid value")
	}
	if got := GetEnvDuration("IFC_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("IFC_TEST_STRING", time.Second); got != time.Second {
		t.Fatalf("GetEnvDuration invalid = %v", got)
	}
	got := GetEnvList("IFC_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("GetEnvList = %v", got)
	}
	if got := GetEnvList("IFC_TEST_MISSING", []string{"x"}); len(got) != 1 {
		t.Fatalf("GetEnvList default = %v", got)
	}
}
