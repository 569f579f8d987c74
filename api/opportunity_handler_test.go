package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aseerhub/aseerhub-backend/models"
)

func TestCreateOpportunity(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner")

	t.Run("requires auth", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title": "x",
		}, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title":           "Hillside apiary",
			"description":     "Honey production at altitude",
			"location":        "Abha",
			"sector":          "agriculture",
			"budget_required": 250_000,
		}, user.ID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Equal(t, user.ID, view.OwnerID)
		assert.Equal(t, models.StatusActive, view.Status)
		// The creator sees the fingerprint
		assert.Len(t, view.Fingerprint, 64)
	})

	t.Run("missing required field", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title": "No description",
		}, user.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("client-supplied fingerprint timestamp ignored", func(t *testing.T) {
		before := time.Now().Add(-time.Minute)
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title":           "Backdated",
			"description":     "d",
			"location":        "Abha",
			"sector":          "tourism",
			"budget_required": 100_000,
			"fingerprint_at":  "2019-01-01T00:00:00Z",
		}, user.ID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		// The content proof is stamped with server time, never client input
		assert.True(t, view.FingerprintAt.After(before),
			"fingerprint_at %s should be server-assigned", view.FingerprintAt)
	})

	t.Run("unrecognized status", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title":           "Odd status",
			"description":     "d",
			"location":        "Abha",
			"sector":          "tourism",
			"budget_required": 100_000,
			"status":          "published",
		}, user.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("recognized status accepted", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title":           "Pending review",
			"description":     "d",
			"location":        "Abha",
			"sector":          "tourism",
			"budget_required": 100_000,
			"status":          models.StatusPending,
		}, user.ID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Equal(t, models.StatusPending, view.Status)
	})

	t.Run("non-positive budget", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, "/opportunity", map[string]any{
			"title":           "Free project",
			"description":     "d",
			"location":        "Abha",
			"sector":          "tourism",
			"budget_required": 0,
		}, user.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetOpportunityRedaction(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	opp := env.createOpportunity(t, owner, func(o *models.Opportunity) {
		o.Description = strings.Repeat("d", 150)
	})

	path := "/opportunity/" + opp.ID.String()

	t.Run("anonymous gets redacted view", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, path, nil, uuid.Nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Equal(t, strings.Repeat("d", 100)+"...", view.Description)
		assert.Empty(t, view.Fingerprint)
	})

	t.Run("owner gets full view", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, path, nil, owner.ID)
		require.Equal(t, http.StatusOK, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Len(t, view.Description, 150)
		assert.NotEmpty(t, view.Fingerprint)
	})

	t.Run("NDA acceptance unlocks full view", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, path, nil, reader.ID)
		require.Equal(t, http.StatusOK, recorder.Code)
		var before models.OpportunityView
		decodeBody(t, recorder, &before)
		assert.Empty(t, before.Fingerprint)

		ndaRecorder := env.request(t, http.MethodPost, path+"/nda", nil, reader.ID)
		require.Equal(t, http.StatusOK, ndaRecorder.Code)

		recorder = env.request(t, http.MethodGet, path, nil, reader.ID)
		require.Equal(t, http.StatusOK, recorder.Code)
		var after models.OpportunityView
		decodeBody(t, recorder, &after)
		assert.NotEmpty(t, after.Fingerprint)
	})

	t.Run("unknown id", func(t *testing.T) {
		recorder := env.request(t, http.MethodGet, "/opportunity/"+uuid.NewString(), nil, uuid.Nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestVoteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	voter := env.createUser(t, "voter")
	opp := env.createOpportunity(t, owner, nil)

	path := fmt.Sprintf("/opportunity/%s/vote", opp.ID)

	t.Run("first vote succeeds", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, path, map[string]string{
			"vote_type": models.VoteLike,
		}, voter.ID)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var response struct {
			Opportunity models.OpportunityView `json:"opportunity"`
		}
		decodeBody(t, recorder, &response)
		assert.Equal(t, 1, response.Opportunity.LikesCount)
		assert.Equal(t, 100.0, response.Opportunity.CommunityAcceptance)
	})

	t.Run("second vote conflicts", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, path, map[string]string{
			"vote_type": models.VoteDislike,
		}, voter.ID)
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("invalid polarity", func(t *testing.T) {
		recorder := env.request(t, http.MethodPost, path, map[string]string{
			"vote_type": "maybe",
		}, voter.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	opp := env.createOpportunity(t, owner, nil)

	path := "/opportunity/" + opp.ID.String()
	update := map[string]any{
		"title":           "Updated title",
		"description":     "Updated description",
		"location":        opp.Location,
		"sector":          opp.Sector,
		"budget_required": opp.BudgetRequired,
	}

	t.Run("non-owner cannot update", func(t *testing.T) {
		recorder := env.request(t, http.MethodPut, path, update, other.ID)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("owner updates and fingerprint survives", func(t *testing.T) {
		recorder := env.request(t, http.MethodPut, path, update, owner.ID)
		require.Equal(t, http.StatusOK, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Equal(t, "Updated title", view.Title)
		assert.Equal(t, opp.Fingerprint, view.Fingerprint)
	})

	t.Run("unrecognized status rejected", func(t *testing.T) {
		withStatus := map[string]any{
			"title":           "Updated title",
			"description":     "Updated description",
			"location":        opp.Location,
			"sector":          opp.Sector,
			"budget_required": opp.BudgetRequired,
			"status":          "archived",
		}
		recorder := env.request(t, http.MethodPut, path, withStatus, owner.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("omitted status keeps the stored one", func(t *testing.T) {
		recorder := env.request(t, http.MethodPut, path, update, owner.ID)
		require.Equal(t, http.StatusOK, recorder.Code)

		var view models.OpportunityView
		decodeBody(t, recorder, &view)
		assert.Equal(t, models.StatusActive, view.Status)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		recorder := env.request(t, http.MethodDelete, path, nil, other.ID)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		recorder := env.request(t, http.MethodDelete, path, nil, owner.ID)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = env.request(t, http.MethodGet, path, nil, uuid.Nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	commenter := env.createUser(t, "commenter")
	opp := env.createOpportunity(t, owner, nil)

	commentPath := fmt.Sprintf("/opportunity/%s/comment", opp.ID)
	listPath := fmt.Sprintf("/opportunity/%s/comments", opp.ID)

	recorder := env.request(t, http.MethodPost, commentPath, map[string]string{
		"content": "When does construction start?",
	}, commenter.ID)
	require.Equal(t, http.StatusCreated, recorder.Code)

	t.Run("empty content rejected", func(t *testing.T) {
		empty := env.request(t, http.MethodPost, commentPath, map[string]string{}, commenter.ID)
		assert.Equal(t, http.StatusBadRequest, empty.Code)
	})

	t.Run("listing is public and carries usernames", func(t *testing.T) {
		listing := env.request(t, http.MethodGet, listPath, nil, uuid.Nil)
		require.Equal(t, http.StatusOK, listing.Code)

		var response struct {
			Comments []models.CommentView `json:"comments"`
			Total    int                  `json:"total"`
		}
		decodeBody(t, listing, &response)
		require.Equal(t, 1, response.Total)
		assert.Equal(t, "commenter", response.Comments[0].Username)
	})
}
