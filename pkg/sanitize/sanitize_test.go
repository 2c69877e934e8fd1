package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_UGC(t *testing.T) {
	require.Equal(t, "<b>bold</b>", UGC(`<b onclick="x()">bold</b>`))
	require.Equal(t, "plain text", UGC("plain text"))
	require.Equal(t, "", UGC(`<script>alert(1)</script>`))
}

func Test_Strict(t *testing.T) {
	require.Equal(t, "bold", Strict("<b>bold</b>"))
	require.Equal(t, "plain text", Strict("plain text"))
}
