package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)">` +
		`<script type="text/javascript">alert(2)</script>` +
		`<a xlink:href='javascript:alert(3)'><rect onclick='x()' width="10"/></a>` +
		`<foreignObject><iframe src="x"></iframe></foreignObject>` +
		`</svg>`

	out, err := Sanitize([]byte(in))
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "alert")
	assert.NotContains(t, s, "onclick")
	assert.NotContains(t, s, "iframe")
	assert.Contains(t, s, `<rect width="10"/>`)
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	_, err := Sanitize([]byte("<html></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}
