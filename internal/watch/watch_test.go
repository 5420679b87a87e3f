package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestAffected(t *testing.T) {
	w := &Watcher{
		Units: []string{"/src/b.jsxz", "/src/a.jsxz", "/src/c.jsxz"},
		deps:  map[string][]string{
			"/src/a.jsxz": {"/tpl/card.html"},
			"/src/b.jsxz": {"/tpl/card.html", "/tpl/list.html"},
			"/src/c.jsxz": {"/tpl/list.html"},
		},
	}

	assert.Equal(t, []string{"/src/a.jsxz", "/src/b.jsxz"}, w.Affected(map[string]bool{"/tpl/card.html": true}))
	assert.Equal(t, []string{"/src/c.jsxz"}, w.Affected(map[string]bool{"/src/c.jsxz": true}))
	assert.Empty(t, w.Affected(map[string]bool{"/tpl/other.html": true}))
}

func TestShouldTrigger(t *testing.T) {
	assert.True(t, shouldTrigger(fsnotify.Event{Name: "/tpl/card.html", Op: fsnotify.Write}))
	assert.True(t, shouldTrigger(fsnotify.Event{Name: "/tpl/card.html", Op: fsnotify.Rename}))
	assert.False(t, shouldTrigger(fsnotify.Event{Name: "/tpl/card.html", Op: fsnotify.Chmod}))
	assert.False(t, shouldTrigger(fsnotify.Event{Name: "/tpl/.card.html.swp", Op: fsnotify.Write}))
	assert.False(t, shouldTrigger(fsnotify.Event{Name: " ", Op: fsnotify.Write}))
}
