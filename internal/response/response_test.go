package response

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

func TestSuccessEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("get-packages", "/work", map[string]any{"root_package_name": "com.shop"}, nil)))

	assert.JSONEq(t, `{
		"command": "get-packages",
		"cwd": "/work",
		"success": true,
		"data": {"root_package_name": "com.shop"},
		"error": null
	}`, buf.String())
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestFailureEnvelope(t *testing.T) {
	err := coreerrors.NewValidationError("field_name", "class", "is a reserved Java keyword or literal")
	out, mErr := Marshal(New("create-entity-field", "/work", nil, err))
	require.NoError(t, mErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Nil(t, decoded["data"])
	assert.Equal(t, err.Error(), decoded["error"])
	assert.Equal(t, "validation", decoded["error_kind"])
}

func TestPartialFailureKeepsData(t *testing.T) {
	err := coreerrors.NewPartialFailureError(nil,
		coreerrors.SideFailure{Side: "owning", Updated: true},
		coreerrors.SideFailure{Side: "inverse", Err: coreerrors.NewFileError("write", "/work/Customer.java", nil)},
	)
	r := New("create-relationship", "/work", map[string]bool{"owning_side_updated": true, "inverse_side_updated": false}, err)

	assert.False(t, r.Success)
	assert.Equal(t, coreerrors.ErrorTypePartial, r.ErrorKind)
	assert.NotNil(t, r.Data)
}

func TestHTMLIsNotEscaped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New("annotate-entity", "/work", map[string]string{"file_source": "List<Order>"}, nil)))
	assert.Contains(t, buf.String(), "List<Order>")
}
