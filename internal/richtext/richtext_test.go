package richtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"paragraphs":     {in: "<p>Hello <b>world</b></p><p>Next</p>", want: "Hello world Next"},
		"list":           {in: "<ul><li>One</li><li>Two</li></ul>", want: "One Two"},
		"empty editor":   {in: "<p><br></p>", want: ""},
		"blank":          {in: "   ", want: ""},
		"plain text":     {in: "just  some\ntext", want: "just some text"},
		"entities":       {in: "<p>Fish &amp; Chips</p>", want: "Fish & Chips"},
		"line breaks":    {in: "<p>a<br>b</p>", want: "a b"},
		"nested heading": {in: "<h2>Title</h2><p>Body</p>", want: "Title Body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, PlainText(tc.in))
		})
	}
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank("<p> </p>"))
	require.False(t, IsBlank("<p>x</p>"))
}
