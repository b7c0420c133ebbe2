package security

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/aellingwood/linkforge/internal/config"
)

func TestGenerateNonce_Length(t *testing.T) {
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 16 bytes base64-encoded = 24 characters.
	decoded, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		t.Fatalf("nonce is not valid base64: %v", err)
	}
	if len(decoded) != 16 {
		t.Errorf("expected 16 decoded bytes, got %d", len(decoded))
	}
}

func TestGenerateNonce_Unique(t *testing.T) {
	n1, err := GenerateNonce()
	if err != nil {
		t.Fatal(err)
	}
	n2, err := GenerateNonce()
	if err != nil {
		t.Fatal(err)
	}
	if n1 == n2 {
		t.Error("two consecutive nonces should not be equal")
	}
}

func TestCSPPolicy_String(t *testing.T) {
	p := &CSPPolicy{
		DefaultSrc: []string{"'none'"},
		ScriptSrc:  []string{"'self'"},
		ImgSrc:     []string{"'self'", "data:"},
	}
	s := p.String()
	if !strings.Contains(s, "default-src 'none'") {
		t.Error("expected default-src 'none' in policy")
	}
	if !strings.Contains(s, "script-src 'self'") {
		t.Error("expected script-src 'self' in policy")
	}
	if !strings.Contains(s, "img-src 'self' data:") {
		t.Error("expected img-src 'self' data: in policy")
	}
	// Empty directives should be skipped.
	if strings.Contains(s, "style-src") {
		t.Error("empty style-src should be omitted")
	}
	if strings.Contains(s, "font-src") {
		t.Error("empty font-src should be omitted")
	}
}

func TestCSPPolicy_String_Empty(t *testing.T) {
	p := &CSPPolicy{}
	if p.String() != "" {
		t.Errorf("expected empty string for empty policy, got %q", p.String())
	}
}

// ---------------------------------------------------------------------------
// PagePolicy
// ---------------------------------------------------------------------------

func TestPagePolicy_Defaults(t *testing.T) {
	s := PagePolicy("abc", config.Default()).String()

	for _, want := range []string{
		"default-src 'none'",
		"script-src 'nonce-abc'",
		"style-src 'self' 'nonce-abc'",
		"img-src 'self' data: https://avatars.githubusercontent.com",
		"manifest-src 'self'",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
	if strings.Contains(s, "unsafe-inline") {
		t.Error("page policy should not allow unsafe-inline")
	}
	if strings.Contains(s, "frame-ancestors") {
		t.Error("frame-ancestors has no effect in a meta tag")
	}
	if strings.Contains(s, "connect-src") {
		t.Error("the page makes no connections")
	}
}

func TestPagePolicy_ImageOrigins(t *testing.T) {
	c := config.Default()
	c.Profile.Avatar = "https://cdn.example.com/me.png"
	c.SEO.Favicon = "https://cdn.example.com/favicon.png"
	c.Theme.BackgroundStyle = config.BackgroundImage
	c.Theme.BackgroundImage = "https://images.example.org:8443/bg.jpg"

	p := PagePolicy("n", c)
	want := []string{"'self'", "data:", "https://cdn.example.com", "https://images.example.org:8443"}
	if strings.Join(p.ImgSrc, " ") != strings.Join(want, " ") {
		t.Errorf("img-src: got %v, want %v", p.ImgSrc, want)
	}
}

func TestPagePolicy_BackgroundOnlyForImageStyle(t *testing.T) {
	c := config.Default()
	c.Theme.BackgroundStyle = config.BackgroundSolid
	c.Theme.BackgroundImage = "https://images.example.org/bg.jpg"

	if strings.Contains(PagePolicy("n", c).String(), "images.example.org") {
		t.Error("an unused background image should not widen img-src")
	}
}

func TestPagePolicy_RelativeImages(t *testing.T) {
	c := config.Default()
	c.Profile.Avatar = "/avatar.png"

	p := PagePolicy("n", c)
	if len(p.ImgSrc) != 2 {
		t.Errorf("relative images are covered by 'self', got %v", p.ImgSrc)
	}
}

func TestPagePolicy_NilConfig(t *testing.T) {
	if PagePolicy("n", nil).String() == "" {
		t.Error("expected a policy without a config")
	}
}

func TestCSPPolicy_DirectiveOrder(t *testing.T) {
	parts := strings.Split(PagePolicy("test", config.Default()).String(), "; ")
	if len(parts) < 5 {
		t.Errorf("expected at least 5 directive parts, got %d", len(parts))
	}
	if !strings.HasPrefix(parts[0], "default-src") {
		t.Errorf("expected default-src as first directive, got %q", parts[0])
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://a.example/x.png", "https://a.example"},
		{"http://a.example:8080/x", "http://a.example:8080"},
		{"/x.png", ""},
		{"", ""},
		{"mailto:a@b.c", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		if got := origin(tt.in); got != tt.want {
			t.Errorf("origin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
