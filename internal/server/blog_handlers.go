package server

import (
	"bytes"
	"errors"
	"html/template"

	"blogpad/internal/markdown"
	"blogpad/internal/models"

	"github.com/gofiber/fiber/v2"
)

var blogIndexTmpl = template.Must(template.New("blog_index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Name}}'s Blog</title>
<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 0 auto; padding: 2rem 1rem; color: #222; }
h1 { border-bottom: 2px solid #eee; padding-bottom: .5rem; }
article { margin: 2rem 0; }
article h2 a { color: #1a5276; text-decoration: none; }
.meta { color: #888; font-size: .875rem; }
.empty { color: #888; font-style: italic; margin-top: 3rem; }
</style>
</head>
<body>
<h1>{{.Name}}'s Blog</h1>
<p class="meta">by @{{.Username}} &middot; {{.PostsCount}} posts</p>
{{range .Posts}}
<article>
<h2><a href="/blog/{{$.Username}}/{{.Slug}}">{{.Title}}</a></h2>
<p class="meta">{{.PublishedAt}} &middot; {{.WordCount}} words</p>
</article>
{{else}}
<p class="empty">Nothing published yet.</p>
{{end}}
</body>
</html>
`))

var blogPostTmpl = template.Must(template.New("blog_post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} &mdash; {{.Name}}'s Blog</title>
<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 0 auto; padding: 2rem 1rem; color: #222; line-height: 1.6; }
h1 { margin-bottom: .25rem; }
.meta { color: #888; font-size: .875rem; margin-bottom: 2rem; }
.content img { max-width: 100%; }
.content pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
a.back { color: #1a5276; text-decoration: none; }
</style>
</head>
<body>
<p><a class="back" href="/blog/{{.Username}}">&larr; {{.Name}}'s Blog</a></p>
<h1>{{.Title}}</h1>
<p class="meta">{{.PublishedAt}} &middot; {{.WordCount}} words</p>
<div class="content">{{.Content}}</div>
</body>
</html>
`))

type blogPostEntry struct {
	Title       string
	Slug        string
	PublishedAt string
	WordCount   int
}

// BlogIndex handles GET /blog/:username, the public server-rendered index of
// a writer's published posts.
func (s *Server) BlogIndex(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).SendString("Blog not found")
	}

	posts, err := s.postRepo.ListPublicByUserID(c.Context(), user.ID, 50, 0)
	if err != nil {
		return respondServiceError(c, err)
	}

	entries := make([]blogPostEntry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, blogPostEntry{
			Title:       post.Title,
			Slug:        post.Slug,
			PublishedAt: post.CreatedAt.Format("January 2, 2006"),
			WordCount:   post.WordCount,
		})
	}

	return s.renderHTML(c, blogIndexTmpl, fiber.Map{
		"Name":       user.Name,
		"Username":   user.Username,
		"PostsCount": len(entries),
		"Posts":      entries,
	})
}

// BlogPost handles GET /blog/:username/:slug. Markdown content is rendered
// and sanitized server-side.
func (s *Server) BlogPost(c *fiber.Ctx) error {
	username := c.Params("username")
	slug := c.Params("slug")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).SendString("Blog not found")
	}

	post, err := s.postRepo.GetBySlug(c.Context(), slug)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return c.Status(fiber.StatusNotFound).SendString("Post not found")
		}
		return respondServiceError(c, err)
	}
	if post.UserID != user.ID || !post.IsPublic {
		return c.Status(fiber.StatusNotFound).SendString("Post not found")
	}

	return s.renderHTML(c, blogPostTmpl, fiber.Map{
		"Name":        user.Name,
		"Username":    user.Username,
		"Title":       post.Title,
		"PublishedAt": post.CreatedAt.Format("January 2, 2006"),
		"WordCount":   post.WordCount,
		"Content":     markdown.Render(post.Content),
	})
}

func (s *Server) renderHTML(c *fiber.Ctx, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return c.Send(buf.Bytes())
}
