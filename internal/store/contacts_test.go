package store

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreate(t *testing.T) {
	contacts := NewContactStore(newTestDB(t))

	created, err := contacts.FindOrCreate("5534991112222", "")
	require.NoError(t, err)
	assert.Equal(t, "Cliente", created.Name)

	// The placeholder name is upgraded once a push name arrives.
	again, err := contacts.FindOrCreate("5534991112222", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)

	// A real name is never downgraded back to the placeholder.
	third, err := contacts.FindOrCreate("5534991112222", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", third.Name)

	n, err := contacts.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUpsertOverwritesName(t *testing.T) {
	contacts := NewContactStore(newTestDB(t))

	require.NoError(t, contacts.Upsert("5534991112222", "Ana"))
	require.NoError(t, contacts.Upsert("5534991112222", "Ana Paula"))

	contact, err := contacts.Find("5534991112222")
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", contact.Name)
}

func TestImportFromCSVBase64(t *testing.T) {
	contacts := NewContactStore(newTestDB(t))

	csv := "id,nome,email,plano,telefone\n" +
		"1,Ana Paula,ana@x.com,VIP,(34) 98888-7777\n" +
		"2,Bruno,bruno@x.com,Mensal,N/A\n" +
		"3,Carla,carla@x.com,Avulso,5534999990000\n" +
		"4,Sem Telefone,s@x.com,Avulso,\n"
	imported, err := contacts.ImportFromCSVBase64(base64.StdEncoding.EncodeToString([]byte(csv)))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	// 11 local digits gained the country code.
	ana, err := contacts.Find("5534988887777")
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", ana.Name)

	// Already-prefixed numbers pass through untouched.
	carla, err := contacts.Find("5534999990000")
	require.NoError(t, err)
	assert.Equal(t, "Carla", carla.Name)
}

func TestImportFromCSVBase64RejectsGarbage(t *testing.T) {
	contacts := NewContactStore(newTestDB(t))
	_, err := contacts.ImportFromCSVBase64("not base64 at all!!!")
	assert.Error(t, err)
}
