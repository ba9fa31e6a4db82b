package handlers

import "testing"

func TestInitReadsCookieDomain(t *testing.T) {
	t.Setenv("DOMAIN", "taskhive.test")

	Init()

	if Domain != "taskhive.test" {
		t.Errorf("Domain = %q, want %q", Domain, "taskhive.test")
	}
}
