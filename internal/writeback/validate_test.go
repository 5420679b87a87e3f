package writeback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidJSX(t *testing.T) {
	src := []byte(`const App = () => (<div className="a">{x ? <b /> : null}</div>);
`)
	assert.NoError(t, Validate(src, "app.js"))
}

func TestValidate_BrokenJSX(t *testing.T) {
	src := []byte(`const App = () => (<div className="a">
  <span>
);
`)
	err := Validate(src, "app.js")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "app.js", ve.FilePath)
	assert.NotEmpty(t, ve.Message)
}

func TestValidate_ValidTSX(t *testing.T) {
	src := []byte(`const App = (p: {n: number}) => <i>{p.n}</i>;
`)
	assert.NoError(t, Validate(src, "app.tsx"))
}

func TestValidate_EmptyContent(t *testing.T) {
	assert.NoError(t, Validate([]byte{}, "app.js"))
}
