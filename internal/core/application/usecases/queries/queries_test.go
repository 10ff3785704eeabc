package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfast/internal/core/application/usecases/queries"
	"foodfast/internal/core/domain/model/kernel"
)

func TestNewGetActiveOrdersQuery_Valid(t *testing.T) {
	query := queries.NewGetActiveOrdersQuery()
	require.NoError(t, query.Validate())
}

func TestGetActiveOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetActiveOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetActiveOrdersQueryIsNotConstructed)
}

func TestNewGetChatHistoryQuery_Valid(t *testing.T) {
	a := kernel.NewUUID()
	b := kernel.NewUUID()

	query, err := queries.NewGetChatHistoryQuery(a, b)
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	// key is the same regardless of participant order
	flipped, err := queries.NewGetChatHistoryQuery(b, a)
	require.NoError(t, err)
	assert.True(t, query.Conversation().IsEqual(flipped.Conversation()))
}

func TestNewGetChatHistoryQuery_InvalidParticipant(t *testing.T) {
	_, err := queries.NewGetChatHistoryQuery(kernel.UUID{}, kernel.NewUUID())
	require.Error(t, err)
}

func TestNewSupportChatHistoryQuery_Valid(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewSupportChatHistoryQuery(orderID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "support:"+orderID.String(), query.Conversation().String())
}

func TestNewSupportChatHistoryQuery_InvalidOrder(t *testing.T) {
	_, err := queries.NewSupportChatHistoryQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestNewGetJobStatusQuery_Valid(t *testing.T) {
	jobID := kernel.NewUUID()
	query, err := queries.NewGetJobStatusQuery(jobID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.JobID().IsEqual(jobID))
}

func TestNewGetJobStatusQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetJobStatusQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetJobStatusQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetJobStatusQuery{}
	assert.ErrorIs(t, query.Validate(), queries.ErrGetJobStatusQueryIsNotConstructed)
}
