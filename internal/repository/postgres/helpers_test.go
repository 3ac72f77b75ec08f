package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%drive%", containsPattern("drive"))
	assert.Equal(t, `%100\%\_off\\%`, containsPattern(`100%_off\`))
}

func TestNullStringRoundTrip(t *testing.T) {
	assert.False(t, nullString(nil).Valid)
	s := "Pune"
	assert.Equal(t, sql.NullString{String: "Pune", Valid: true}, nullString(&s))
	assert.Nil(t, stringPtr(sql.NullString{}))
	assert.Equal(t, "Pune", *stringPtr(sql.NullString{String: "Pune", Valid: true}))
}
