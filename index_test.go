package infodoc_test

import (
	"testing"

	"github.com/fwojciec/infodoc"
	"github.com/stretchr/testify/assert"
)

const indexText = "File: emacs.info,  Node: Key Index,  Up: Top\n\n" +
	"Key Index\n*********\n\n" +
	"\x00\b[index\x00\b]\n" +
	"* Menu:\n\n" +
	"* kill-line:                            Killing.             (line 12)\n" +
	"* kill ring:                            Yanking.             (line 6)\n" +
	"* kill <1>:                             (elisp)Killing.\n" +
	"* kill:                                 Killing.             (line 3)\n" +
	"* skill:                                Yanking.\n"

func TestParseIndexEntries(t *testing.T) {
	t.Parallel()

	entries := infodoc.ParseIndexEntries("emacs", indexText)

	assert.Equal(t, []infodoc.IndexEntry{
		{Manual: "emacs", Entry: "kill-line", Node: "Killing", Line: 12},
		{Manual: "emacs", Entry: "kill ring", Node: "Yanking", Line: 6},
		{Manual: "emacs", Entry: "kill <1>", Node: "(elisp)Killing"},
		{Manual: "emacs", Entry: "kill", Node: "Killing", Line: 3},
		{Manual: "emacs", Entry: "skill", Node: "Yanking"},
	}, entries)
}

func TestParseIndexEntries_Layout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want infodoc.IndexEntry
	}{
		{
			name: "line number wrapped onto next line",
			text: "* a-really-long-index-entry-that-is-wide:     A Fairly Long Node Name.\n" +
				"          (line 6)\n",
			want: infodoc.IndexEntry{Manual: "emacs", Entry: "a-really-long-index-entry-that-is-wide", Node: "A Fairly Long Node Name", Line: 6},
		},
		{
			name: "label containing a colon",
			text: "* Info: colon syntax:                   Colons.              (line 4)\n",
			want: infodoc.IndexEntry{Manual: "emacs", Entry: "Info: colon syntax", Node: "Colons", Line: 4},
		},
		{
			name: "label with colon and disambiguation suffix",
			text: "* std::string <2>:                      Strings.\n",
			want: infodoc.IndexEntry{Manual: "emacs", Entry: "std::string <2>", Node: "Strings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries := infodoc.ParseIndexEntries("emacs", "* Menu:\n\n"+tt.text)

			assert.Equal(t, []infodoc.IndexEntry{tt.want}, entries)
		})
	}
}

func TestParseIndexEntries_WrappedLineDoesNotLeak(t *testing.T) {
	t.Parallel()

	// An entry without a line number must not borrow the next entry's.
	entries := infodoc.ParseIndexEntries("emacs", "* yank:      Yanking.\n"+
		"* kill-region:  Killing.\n    (line 9)\n")

	assert.Equal(t, []infodoc.IndexEntry{
		{Manual: "emacs", Entry: "yank", Node: "Yanking"},
		{Manual: "emacs", Entry: "kill-region", Node: "Killing", Line: 9},
	}, entries)
}

func TestHasIndexCookie(t *testing.T) {
	t.Parallel()

	assert.True(t, infodoc.HasIndexCookie(indexText))
	assert.False(t, infodoc.HasIndexCookie(topText))
}

func TestMatchIndexEntries(t *testing.T) {
	t.Parallel()

	entries := infodoc.ParseIndexEntries("emacs", indexText)

	t.Run("exact matches first", func(t *testing.T) {
		t.Parallel()

		got := infodoc.MatchIndexEntries(entries, "KILL")
		var names []string
		for _, e := range got {
			names = append(names, e.Entry)
		}
		assert.Equal(t, []string{"kill <1>", "kill", "kill-line", "kill ring", "skill"}, names)
	})

	t.Run("substring only", func(t *testing.T) {
		t.Parallel()

		got := infodoc.MatchIndexEntries(entries, "line")
		assert.Len(t, got, 1)
		assert.Equal(t, "kill-line", got[0].Entry)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, infodoc.MatchIndexEntries(entries, "frobnicate"))
	})
}

func TestSupportsIndexCookies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		head string
		want bool
	}{
		{"texi2any", "This is emacs.info, produced by texi2any version 7.1 from emacs.texi.\n", true},
		{"new makeinfo", "This is emacs.info, produced by makeinfo version 4.8 from emacs.texi.\n", true},
		{"old makeinfo", "This is emacs.info, produced by makeinfo version 4.2 from emacs.texi.\n", false},
		{"version wrapped", "This is emacs.info, produced by makeinfo\nversion 6.8 from emacs.texi.\n", true},
		{"no generator", "Some text file.\n", false},
		{"generator too late", "1\n2\n3\n4\n5\nproduced by texi2any version 7.1\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, infodoc.SupportsIndexCookies([]byte(tt.head)))
		})
	}
}
