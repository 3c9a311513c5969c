package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderLoginCodeHTML(t *testing.T) {
	html, err := RenderLoginCodeHTML(LoginCodeEmailData{RecipientName: "Asha <admin>", Code: "042917", Validity: 5 * time.Minute})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"042917", "expires in 5 minutes", "Asha &lt;admin&gt;"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}
