package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteAppleScript(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"Google Chrome", `"Google Chrome"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteAppleScript(tt.input), "quoteAppleScript(%q)", tt.input)
	}
}

func TestBatchScript(t *testing.T) {
	script := batchScript("Google Chrome", []string{"localhost", "The Final Burger"}, []BatchSlot{
		{Bounds: Bounds{-69, 38, 431, 893}, TitleLabel: "iPhone - The Final Burger"},
		{Bounds: Bounds{350, 38, 850, 893}, TitleLabel: "Android - The Final Burger"},
	})

	assert.True(t, strings.HasPrefix(script, `tell application "Google Chrome"`))
	assert.Contains(t, script, `if windowName contains "localhost" or windowName contains "The Final Burger" then`)
	assert.Contains(t, script, "if windowCount is 1 then\n        set bounds of w to {-69, 38, 431, 893}")
	assert.Contains(t, script, "else if windowCount is 2 then\n        set bounds of w to {350, 38, 850, 893}")
	assert.Contains(t, script, `execute javascript "document.title = \"iPhone - The Final Burger\""`)
	assert.Contains(t, script, `execute javascript "document.title = \"Android - The Final Burger\""`)
	assert.Contains(t, script, "if windowCount is 2 then exit repeat")
	assert.Contains(t, script, "return windowCount")
}

func TestBatchScriptWithoutTitleLabel(t *testing.T) {
	script := batchScript("Google Chrome", []string{"localhost"}, []BatchSlot{
		{Bounds: Bounds{0, 0, 100, 100}},
	})
	assert.NotContains(t, script, "execute javascript")
	assert.Equal(t, 1, strings.Count(script, "end if\n      if windowCount is 1 then exit repeat"))
}

func TestSetTitleJavaScriptEscapesQuotes(t *testing.T) {
	js := setTitleJavaScript(`Bob's "App"`)
	assert.Equal(t, `document.title = "Bob's \"App\""`, js)
	assert.Equal(t, `"document.title = \"Bob's \\\"App\\\"\""`, quoteAppleScript(js))
}

func TestParseWindowList(t *testing.T) {
	windows, err := parseWindowList("")
	require.NoError(t, err)
	assert.Empty(t, windows)

	windows, err = parseWindowList("1\t2\t3\t4\tone\r\n\n5\t6\t7\t8\t\n")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "one", windows[0].Title)
	assert.Equal(t, 2, windows[1].Index)
	assert.Equal(t, "", windows[1].Title)

	windows, err = parseWindowList("1\t2\t3\t4\tone\n5\t6\t7\t8")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "", windows[1].Title)
	assert.Equal(t, Bounds{Left: 5, Top: 6, Right: 7, Bottom: 8}, windows[1].Bounds)

	_, err = parseWindowList("1\t2\t3\tfour")
	require.Error(t, err)
	_, err = parseWindowList("1\t2\tx\t4\ttitle")
	require.Error(t, err)
}
