package internal_store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/connectors"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	logger, _ := commons.NewApplicationLogger()
	return NewStore(connectors.NewPostgresConnectorWithDB(db, logger), logger), mock
}

func TestGetProspect(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "prospects" WHERE prospect_id = \$1`).
		WithArgs("p1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "prospect_id", "first_name", "last_name", "phone_number"}).
			AddRow(1, "p1", "Jordan", "Reyes", "+14155550100"))

	prospect, err := store.GetProspect(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", prospect.ProspectID)
	assert.Equal(t, "+14155550100", prospect.PhoneNumber)
	assert.Equal(t, "Jordan Reyes", prospect.FullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProspect_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "prospects" WHERE prospect_id = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetProspect(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetAgentProfile(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "agent_profiles" WHERE profile_id = \$1`).
		WithArgs("a1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "name", "voice_id", "language"}).
			AddRow(1, "a1", "Discovery", "v1", "en"))

	profile, err := store.GetAgentProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", profile.ProfileID)
	assert.Equal(t, "v1", profile.VoiceID)
}

func TestGetTelephonyCredential(t *testing.T) {
	store, mock := newMockStore(t)

	payload := []byte(`{"account_sid":"AC123","account_token":"secret","phone_number":"+14155550199"}`)
	mock.ExpectQuery(`SELECT \* FROM "vault_credentials" WHERE provider = \$1 ORDER BY id DESC`).
		WithArgs("twilio", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider", "name", "value"}).
			AddRow(7, "twilio", "prod", payload))

	cred, err := store.GetTelephonyCredential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cred.Id)
	assert.Equal(t, "twilio", cred.Provider)
	assert.Equal(t, "AC123", cred.GetValue().AsMap()["account_sid"])
}

func TestGetSpeechCredential(t *testing.T) {
	store, mock := newMockStore(t)

	payload := []byte(`{"key":"xi-key","agent_phone_number_id":"pn_1"}`)
	mock.ExpectQuery(`SELECT \* FROM "vault_credentials" WHERE provider = \$1 ORDER BY id DESC`).
		WithArgs("elevenlabs", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider", "name", "value"}).
			AddRow(8, "elevenlabs", "prod", payload))

	cred, err := store.GetSpeechCredential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pn_1", cred.GetValue().AsMap()["agent_phone_number_id"])
}

func TestGetSpeechCredential_MalformedPayload(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "vault_credentials" WHERE provider = \$1 ORDER BY id DESC`).
		WithArgs("elevenlabs", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider", "name", "value"}).
			AddRow(9, "elevenlabs", "prod", []byte("{not json")))

	_, err := store.GetSpeechCredential(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed credential payload")
}
