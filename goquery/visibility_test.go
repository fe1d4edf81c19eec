package goquery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_Visible_Selectors(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `<html><body>
<button id="shown">Copy</button>
<button id="attr" hidden>Copy</button>
<div style="color: red; display : none !important"><button id="ancestor">Copy</button></div>
<div style="display:block"><button id="block">Copy</button></div>
<input id="field" type="hidden" value="x">
</body></html>`)

	cases := map[string]bool{
		"#shown":    true,
		"#attr":     false,
		"#ancestor": false,
		"#block":    true,
		"#field":    false,
	}
	for selector, want := range cases {
		visible, err := mustQuery(t, doc, selector).Visible(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, visible, selector)
	}
}
