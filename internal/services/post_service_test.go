package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
)

func TestPostCreateStartsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")

	post, err := svc.Create(context.Background(), viewerFor(author), CreatePostInput{
		Title:   "Best coffee near campus",
		Content: "The cart behind the science building beats every chain.",
	})
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusPending, post.ModerationStatus)
	assert.Empty(t, post.ModerationReason)
	assert.Equal(t, "stateu.edu", post.College)
	assert.Equal(t, author.ID, post.AuthorID)
}

func TestPostCreatePrescreenFlags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")

	post, err := svc.Create(context.Background(), viewerFor(author), CreatePostInput{
		Title:   "Check this out",
		Content: "Sign up now at https://totally-legit.example.com for free stuff",
	})
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusFlagged, post.ModerationStatus)
	assert.NotEmpty(t, post.ModerationReason)
}

func TestPostCreateRequiresAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())

	_, err := svc.Create(context.Background(), moderation.Viewer{}, CreatePostInput{
		Title:   "Anonymous try",
		Content: "This should never be stored anywhere at all.",
	})
	assert.ErrorIs(t, err, moderation.ErrUnauthenticated)
}

func TestPostCreateBlockedAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	author.IsBlocked = true
	require.NoError(t, db.Save(author).Error)

	_, err := svc.Create(context.Background(), viewerFor(author), CreatePostInput{
		Title:   "One more thing",
		Content: "Blocked accounts cannot submit anything new here.",
	})
	assert.ErrorIs(t, err, moderation.ErrBlocked)
}

func TestPostGetVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	classmate := createTestUser(t, db, "stateu.edu")
	outsider := createTestUser(t, db, "techinst.edu")

	pending := createTestPost(t, db, author, moderation.StatusPending)
	approved := createTestPost(t, db, author, moderation.StatusApproved)
	rejected := createTestPost(t, db, author, moderation.StatusRejected)

	t.Run("author sees own pending", func(t *testing.T) {
		_, vis, err := svc.Get(viewerFor(author), pending.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.VisibilityOwnerPending, vis)
	})

	t.Run("author sees own rejected", func(t *testing.T) {
		_, vis, err := svc.Get(viewerFor(author), rejected.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.VisibilityOwnerRejected, vis)
	})

	t.Run("classmate gets 404 for pending", func(t *testing.T) {
		_, _, err := svc.Get(viewerFor(classmate), pending.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.Status(err))
	})

	t.Run("classmate gets 404 for rejected", func(t *testing.T) {
		_, _, err := svc.Get(viewerFor(classmate), rejected.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.Status(err))
	})

	t.Run("classmate sees approved", func(t *testing.T) {
		_, vis, err := svc.Get(viewerFor(classmate), approved.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.VisibilityFull, vis)
	})

	t.Run("outsider gets metadata-only for approved", func(t *testing.T) {
		_, vis, err := svc.Get(viewerFor(outsider), approved.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.VisibilityDeniedCollege, vis)
	})

	t.Run("admin sees pending in full", func(t *testing.T) {
		_, vis, err := svc.Get(adminViewer("techinst.edu"), pending.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.VisibilityFull, vis)
	})
}

func TestPostFeedOnlyApproved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	reader := createTestUser(t, db, "stateu.edu")
	otherCollege := createTestUser(t, db, "techinst.edu")

	createTestPost(t, db, author, moderation.StatusPending)
	createTestPost(t, db, author, moderation.StatusFlagged)
	createTestPost(t, db, author, moderation.StatusRejected)
	approved := createTestPost(t, db, author, moderation.StatusApproved)
	createTestPost(t, db, otherCollege, moderation.StatusApproved)

	posts, total, err := svc.Feed(context.Background(), viewerFor(reader), "", "", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, approved.ID, posts[0].ID)
}

func TestPostFeedIgnoresCollegeParamForNonAdmins(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	outsider := createTestUser(t, db, "techinst.edu")
	author := createTestUser(t, db, "stateu.edu")
	createTestPost(t, db, author, moderation.StatusApproved)

	posts, total, err := svc.Feed(context.Background(), viewerFor(outsider), "stateu.edu", "", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(0), total)
	assert.Empty(t, posts)
}

func TestPostMineIncludesAllStates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")

	createTestPost(t, db, author, moderation.StatusPending)
	createTestPost(t, db, author, moderation.StatusApproved)
	createTestPost(t, db, author, moderation.StatusRejected)

	posts, total, err := svc.Mine(viewerFor(author), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, posts, 3)
}

func TestPostUpdateResubmits(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")

	rejected := createTestPost(t, db, author, moderation.StatusRejected)

	updated, err := svc.Update(context.Background(), viewerFor(author), rejected.ID, UpdatePostInput{
		Title:   "Revised midterm tips",
		Content: "Cleaned the wording up after the first review round.",
	})
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusPending, updated.ModerationStatus)
	assert.Empty(t, updated.ModerationReason)
	assert.NotNil(t, updated.EditedAt)
}

func TestPostUpdateOfApprovedHidesIt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	classmate := createTestUser(t, db, "stateu.edu")

	approved := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Update(context.Background(), viewerFor(author), approved.ID, UpdatePostInput{
		Title:   "Edited title",
		Content: "New content waiting on a fresh review before showing.",
	})
	require.NoError(t, err)

	_, _, err = svc.Get(viewerFor(classmate), approved.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestPostUpdateNotAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	other := createTestUser(t, db, "stateu.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Update(context.Background(), viewerFor(other), post.ID, UpdatePostInput{
		Title:   "Hijacked",
		Content: "Someone else should never be able to rewrite this.",
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.Status(err))
}

func TestPostModerate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	ctx := context.Background()

	t.Run("approve pending", func(t *testing.T) {
		post := createTestPost(t, db, author, moderation.StatusPending)
		out, err := svc.Moderate(ctx, post.ID, moderation.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, moderation.StatusApproved, out.ModerationStatus)
		assert.Empty(t, out.ModerationReason)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		post := createTestPost(t, db, author, moderation.StatusPending)
		_, err := svc.Moderate(ctx, post.ID, moderation.DecisionReject, "")
		require.Error(t, err)
		assert.Equal(t, 400, apperr.Status(err))
	})

	t.Run("repeated approve is idempotent", func(t *testing.T) {
		post := createTestPost(t, db, author, moderation.StatusPending)
		_, err := svc.Moderate(ctx, post.ID, moderation.DecisionApprove, "")
		require.NoError(t, err)

		out, err := svc.Moderate(ctx, post.ID, moderation.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, moderation.StatusApproved, out.ModerationStatus)
	})

	t.Run("conflicting decision after approval", func(t *testing.T) {
		post := createTestPost(t, db, author, moderation.StatusPending)
		_, err := svc.Moderate(ctx, post.ID, moderation.DecisionApprove, "")
		require.NoError(t, err)

		_, err = svc.Moderate(ctx, post.ID, moderation.DecisionReject, "too late")
		require.Error(t, err)
		assert.Equal(t, 409, apperr.Status(err))
	})

	t.Run("approve after flag clears rationale", func(t *testing.T) {
		post := createTestPost(t, db, author, moderation.StatusFlagged)
		out, err := svc.Moderate(ctx, post.ID, moderation.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, moderation.StatusApproved, out.ModerationStatus)
		assert.Empty(t, out.ModerationReason)
	})
}

func TestPostLikeGating(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	classmate := createTestUser(t, db, "stateu.edu")
	outsider := createTestUser(t, db, "techinst.edu")

	approved := createTestPost(t, db, author, moderation.StatusApproved)
	pending := createTestPost(t, db, author, moderation.StatusPending)

	t.Run("classmate can like approved", func(t *testing.T) {
		liked, count, err := svc.ToggleLike(viewerFor(classmate), approved.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, count)
	})

	t.Run("second like withdraws", func(t *testing.T) {
		liked, count, err := svc.ToggleLike(viewerFor(classmate), approved.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, count)
	})

	t.Run("outsider cannot like", func(t *testing.T) {
		_, _, err := svc.ToggleLike(viewerFor(outsider), approved.ID)
		assert.ErrorIs(t, err, moderation.ErrCollegeMismatch)
	})

	t.Run("author cannot like own pending post", func(t *testing.T) {
		_, _, err := svc.ToggleLike(viewerFor(author), pending.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperr.Status(err))
	})

	t.Run("classmate liking pending gets 404", func(t *testing.T) {
		_, _, err := svc.ToggleLike(viewerFor(classmate), pending.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.Status(err))
	})
}

func TestPostComments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")
	classmate := createTestUser(t, db, "stateu.edu")

	approved := createTestPost(t, db, author, moderation.StatusApproved)

	comment, err := svc.AddComment(viewerFor(classmate), approved.ID, "Seconding the basement tip.")
	require.NoError(t, err)
	assert.Equal(t, classmate.ID, comment.AuthorID)

	comments, err := svc.Comments(viewerFor(author), approved.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	var count int
	db.Model(approved).Select("comment_count").Scan(&count)
	assert.Equal(t, 1, count)
}

func TestPostQueueFlaggedFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, NewPrescreenService())
	author := createTestUser(t, db, "stateu.edu")

	createTestPost(t, db, author, moderation.StatusPending)
	flagged := createTestPost(t, db, author, moderation.StatusFlagged)
	createTestPost(t, db, author, moderation.StatusApproved)

	posts, total, err := svc.Queue("", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, flagged.ID, posts[0].ID)
}
