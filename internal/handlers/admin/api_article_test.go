package admin

import (
	"testing"

	"github.com/s/writersDesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleViewOwnerSeesRawContent(t *testing.T) {
	owner := models.User{ID: 7, RoleID: models.RoleWriter}
	article := models.Article{ID: 1, Title: "Mine", Content: "raw text", WriterID: 7}

	resp := articleView(article, owner, nil)

	assert.True(t, resp.Editable)
	assert.Equal(t, "raw text", resp.Content)
	assert.Empty(t, resp.ContentHTML)
}

func TestArticleViewNonOwnerGetsProjection(t *testing.T) {
	article := models.Article{ID: 1, Title: "Foreign", Content: "First <b>para</b>\n\nSecond para", WriterID: 7}

	// И обычный автор, и ведущий видят чужую статью только в проекции
	for _, actor := range []models.User{
		{ID: 8, RoleID: models.RoleWriter},
		{ID: 9, RoleID: models.RoleLead},
	} {
		resp := articleView(article, actor, nil)

		assert.False(t, resp.Editable)
		assert.Empty(t, resp.Content)
		assert.Equal(t, "<p>First &lt;b&gt;para&lt;/b&gt;</p><p>Second para</p>", resp.ContentHTML)
	}
}

func TestArticleViewAdminSeesRawContent(t *testing.T) {
	adminUser := models.User{ID: 2, RoleID: models.RoleAdmin}
	article := models.Article{ID: 1, Content: "raw text", WriterID: 7}

	resp := articleView(article, adminUser, nil)

	assert.True(t, resp.Editable)
	assert.Equal(t, "raw text", resp.Content)
}

func TestArticleViewCarriesWarnings(t *testing.T) {
	owner := models.User{ID: 7, RoleID: models.RoleWriter}
	article := models.Article{ID: 1, Content: "raw text", WriterID: 7}

	resp := articleView(article, owner, []string{"scoring unavailable: transport: connection refused"})

	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "scoring unavailable")
}

// В списках статей модуля проекция применяется поштучно:
// свои статьи с сырым текстом, чужие без него
func TestArticleViewsMixedOwnership(t *testing.T) {
	actor := models.User{ID: 7, RoleID: models.RoleWriter}
	articles := []models.Article{
		{ID: 1, Title: "Mine", Content: "my text", WriterID: 7},
		{ID: 2, Title: "Foreign", Content: "their text", WriterID: 8},
	}

	views := articleViews(articles, actor)
	require.Len(t, views, 2)

	assert.True(t, views[0].Editable)
	assert.Equal(t, "my text", views[0].Content)

	assert.False(t, views[1].Editable)
	assert.Empty(t, views[1].Content)
	assert.Equal(t, "<p>their text</p>", views[1].ContentHTML)
}
