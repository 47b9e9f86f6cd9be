package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenParams(t *testing.T) {
	form := url.Values{}
	flattenParams(form, "", map[string]interface{}{
		"partids":   []interface{}{float64(10), float64(11)},
		"allowlate": true,
		"username":  "student1",
	})

	assert.Equal(t, "10", form.Get("partids[0]"))
	assert.Equal(t, "11", form.Get("partids[1]"))
	assert.Equal(t, "1", form.Get("allowlate"))
	assert.Equal(t, "student1", form.Get("username"))
}

func TestUnwrapDataAndCompare(t *testing.T) {
	data, err := unwrapData([]byte(`{"data":{"success":true,"partid":10,"allowlate":false}}`))
	require.NoError(t, err)
	assert.True(t, bodiesEqual(data, []byte(`{"success":1,"partid":"10","allowlate":0}`)))
	assert.False(t, bodiesEqual(data, []byte(`{"success":0,"partid":10,"allowlate":0}`)))

	_, err = unwrapData([]byte(`{"data":null,"error":{"code":"FORBIDDEN","message":"forbidden"}}`))
	require.Error(t, err)
}
