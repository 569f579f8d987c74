package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aseerhub/aseerhub-backend/database"
	"github.com/aseerhub/aseerhub-backend/errs"
	"github.com/aseerhub/aseerhub-backend/models"
)

type opportunityHandler struct {
	responder       Responder
	logger          zerolog.Logger
	opportunityRepo *database.OpportunityRepo
	voteRepo        *database.VoteRepo
	commentRepo     *database.CommentRepo
	ndaRepo         *database.NDARepo
	sessions        sessionManager
}

func newOpportunityHandler(
	opportunityRepo *database.OpportunityRepo,
	voteRepo *database.VoteRepo,
	commentRepo *database.CommentRepo,
	ndaRepo *database.NDARepo,
	sessions sessionManager,
) opportunityHandler {
	logger := log.With().Str("handlerName", "opportunityHandler").Logger()

	return opportunityHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		opportunityRepo: opportunityRepo,
		voteRepo:        voteRepo,
		commentRepo:     commentRepo,
		ndaRepo:         ndaRepo,
		sessions:        sessions,
	}
}

// OpportunityCollection wraps a list of redacted opportunity views
type OpportunityCollection struct {
	Opportunities []models.OpportunityView `json:"opportunities"`
	Total         int                      `json:"total"`
}

// canSeeSensitive reports whether the viewer may read the full description
// and fingerprint: the owner always can, anyone else needs an NDA on file.
func (h opportunityHandler) canSeeSensitive(viewerID uuid.UUID, opp *models.Opportunity) bool {
	if viewerID == uuid.Nil {
		return false
	}
	if viewerID == opp.OwnerID {
		return true
	}
	accepted, err := h.ndaRepo.HasAccepted(viewerID, opp.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to check NDA acceptance")
		return false
	}
	return accepted
}

// getAllOpportunities lists opportunities with optional filters
// @Summary List opportunities
// @Description Lists opportunities, optionally filtered by status, sector and location. Descriptions are redacted.
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param status query string false "Status filter"
// @Param sector query string false "Sector filter"
// @Param location query string false "Location filter"
// @Success 200 {object} OpportunityCollection "List of opportunities"
// @Failure 500 {object} errs.ErrorResponse "Internal Server Error - Error fetching opportunities"
// @Router /opportunities [get]
func (h opportunityHandler) getAllOpportunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.ListFilter{
			Status:   r.URL.Query().Get("status"),
			Sector:   r.URL.Query().Get("sector"),
			Location: r.URL.Query().Get("location"),
		}

		opportunities, err := h.opportunityRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunities", "opportunities", err))
			return
		}

		views := make([]models.OpportunityView, 0, len(opportunities))
		for _, opp := range opportunities {
			views = append(views, opp.View(false))
		}

		h.responder.WriteJSON(w, OpportunityCollection{
			Opportunities: views,
			Total:         len(views),
		})
	}
}

// getOpportunity returns a single opportunity. Owners and NDA holders get the
// full description and fingerprint; everyone else a redacted view.
func (h opportunityHandler) getOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		opportunity, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if opportunity == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}

		// Session is optional here
		viewerID, _ := h.sessions.currentUserID(r)

		h.responder.WriteJSON(w, opportunity.View(h.canSeeSensitive(viewerID, opportunity)))
	}
}

// createOpportunity posts a new opportunity owned by the current user
// @Summary Create opportunity
// @Description Creates a new investment opportunity owned by the authenticated user
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param opportunity body models.Opportunity true "Opportunity data"
// @Success 201 {object} models.OpportunityView "Created opportunity"
// @Failure 400 {object} errs.ErrorResponse "Bad Request - Invalid opportunity data"
// @Failure 500 {object} errs.ErrorResponse "Internal Server Error - Error creating opportunity"
// @Router /opportunity [post]
func (h opportunityHandler) createOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var opportunity models.Opportunity
		if err := json.NewDecoder(r.Body).Decode(&opportunity); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode opportunity request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if opportunity.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if opportunity.Description == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("description"))
			return
		}
		if opportunity.Location == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("location"))
			return
		}
		if opportunity.Sector == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("sector"))
			return
		}
		if opportunity.BudgetRequired <= 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("budget_required", "must be positive"))
			return
		}
		if opportunity.Status != "" && !models.ValidStatus(opportunity.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status",
				"must be one of 'active', 'pending', 'approved', 'rejected'"))
			return
		}

		opportunity.ID = uuid.Nil
		opportunity.OwnerID = userID
		opportunity.LikesCount = 0
		opportunity.CommentsCount = 0
		opportunity.CommunityAcceptance = 0
		// The fingerprint and its timestamp are server-assigned; a
		// client-supplied fingerprint_at would backdate the content proof.
		opportunity.Fingerprint = ""
		opportunity.FingerprintAt = time.Time{}

		if err := h.opportunityRepo.Add(&opportunity); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create opportunity", "opportunity", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, opportunity.View(true))
	}
}

// updateOpportunity edits an opportunity owned by the current user. The
// content fingerprint survives the edit untouched.
func (h opportunityHandler) updateOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}
		if existing.OwnerID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner may edit an opportunity"))
			return
		}

		var opportunity models.Opportunity
		if err := json.NewDecoder(r.Body).Decode(&opportunity); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode opportunity request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if opportunity.Status == "" {
			opportunity.Status = existing.Status
		} else if !models.ValidStatus(opportunity.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status",
				"must be one of 'active', 'pending', 'approved', 'rejected'"))
			return
		}

		// Ensure identity and ownership survive whatever the client sent
		opportunity.ID = opportunityID
		opportunity.OwnerID = existing.OwnerID
		opportunity.LikesCount = existing.LikesCount
		opportunity.CommentsCount = existing.CommentsCount
		opportunity.CommunityAcceptance = existing.CommunityAcceptance

		if err := h.opportunityRepo.Update(&opportunity); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update opportunity", "opportunity", err))
			return
		}

		h.responder.WriteJSON(w, opportunity.View(true))
	}
}

// deleteOpportunity removes an owned opportunity and everything attached to it
func (h opportunityHandler) deleteOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}
		if existing.OwnerID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the owner may delete an opportunity"))
			return
		}

		if err := h.opportunityRepo.Delete(opportunityID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete opportunity", "opportunity", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "opportunity deleted successfully",
		})
	}
}

type voteRequest struct {
	VoteType string `json:"vote_type"`
}

// voteOnOpportunity casts a like/dislike. A second vote on the same
// opportunity is a conflict, not an overwrite.
func (h opportunityHandler) voteOnOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req voteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.VoteType != models.VoteLike && req.VoteType != models.VoteDislike {
			h.responder.WriteError(w, errs.NewInvalidFieldError("vote_type", "must be 'like' or 'dislike'"))
			return
		}

		opportunity, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if opportunity == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}

		vote := models.Vote{
			UserID:        userID,
			OpportunityID: opportunityID,
			VoteType:      req.VoteType,
		}
		if err := h.voteRepo.Add(&vote); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create vote", "vote", err))
			return
		}

		// Reload for the refreshed counters
		updated, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"vote":        vote,
			"opportunity": updated.View(false),
		})
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// commentOnOpportunity appends a comment
func (h opportunityHandler) commentOnOpportunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		opportunity, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if opportunity == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}

		comment := models.Comment{
			UserID:        userID,
			OpportunityID: opportunityID,
			Content:       req.Content,
		}
		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "comment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, comment)
	}
}

// getComments lists an opportunity's comments, oldest first
func (h opportunityHandler) getComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.commentRepo.FindByOpportunity(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "comments", err))
			return
		}

		views := make([]models.CommentView, 0, len(comments))
		for _, comment := range comments {
			views = append(views, comment.View())
		}

		h.responder.WriteJSON(w, map[string]any{
			"comments": views,
			"total":    len(views),
		})
	}
}

// acceptNDA records the current user's NDA acceptance for an opportunity.
// Idempotent: accepting twice returns the original record.
func (h opportunityHandler) acceptNDA() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		opportunity, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if opportunity == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}

		var ipAddress *string
		if host, _, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil && host != "" {
			ipAddress = &host
		}

		acceptance, err := h.ndaRepo.Accept(userID, opportunityID, ipAddress)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("record NDA acceptance", "nda_acceptance", err))
			return
		}

		h.responder.WriteJSON(w, acceptance)
	}
}

// parseOpportunityID extracts and validates the opportunityID path parameter
func parseOpportunityID(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "opportunityID")
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing opportunityID")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid opportunityID")
	}
	return id, nil
}
