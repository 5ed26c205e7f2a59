package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStruct(t *testing.T) {
	res := Created("comment created", map[string]any{"id": uint64(12), "content": "nice"})

	st, err := res.Struct()
	require.NoError(t, err)

	fields := st.GetFields()
	assert.Equal(t, "created", fields["status"].GetStringValue())
	assert.Equal(t, "comment created", fields["message"].GetStringValue())
	data := fields["data"].GetStructValue().GetFields()
	assert.Equal(t, float64(12), data["id"].GetNumberValue())
	assert.Equal(t, "nice", data["content"].GetStringValue())
}

func TestResultWithoutData(t *testing.T) {
	st, err := OK("deleted", nil).Struct()
	require.NoError(t, err)
	_, hasData := st.GetFields()["data"]
	assert.False(t, hasData)
}
