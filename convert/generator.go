package convert

import (
	"context"

	"go.uber.org/zap"

	"wpparser/config"
	"wpparser/wxr"
)

// WriteTo generates output in the format selected at Prepare time and writes
// it to the destination path.
func (e *Export) WriteTo(ctx context.Context, outputPath string, log *zap.Logger) error {
	switch e.OutputFormat {
	case config.OutputFmtJson:
		return writeJSON(ctx, e, outputPath, log)
	case config.OutputFmtYaml:
		return writeYAML(ctx, e, outputPath, log)
	case config.OutputFmtSqlite:
		return writeSQLite(ctx, e, outputPath, log)
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Serializable views of the record tree shared by the JSON and YAML
// generators. Field keys follow WXR vocabulary; nil stays null so consumers
// can tell absent from empty.
type (
	blogView struct {
		Title      *string `json:"title" yaml:"title"`
		Tagline    *string `json:"tagline" yaml:"tagline"`
		Language   *string `json:"language" yaml:"language"`
		SiteURL    *string `json:"site_url" yaml:"site_url"`
		BlogURL    *string `json:"blog_url" yaml:"blog_url"`
		WXRVersion *string `json:"wxr_version" yaml:"wxr_version"`
	}

	authorView struct {
		Login       *string `json:"login" yaml:"login"`
		Email       *string `json:"email" yaml:"email"`
		DisplayName *string `json:"display_name" yaml:"display_name"`
		FirstName   *string `json:"first_name" yaml:"first_name"`
		LastName    *string `json:"last_name" yaml:"last_name"`
	}

	categoryView struct {
		TermID   *string        `json:"term_id" yaml:"term_id"`
		Nicename *string        `json:"nicename" yaml:"nicename"`
		Name     *string        `json:"name" yaml:"name"`
		Parent   *string        `json:"parent" yaml:"parent"`
		Children []categoryView `json:"children" yaml:"children"`
	}

	tagView struct {
		TermID *string `json:"term_id" yaml:"term_id"`
		Slug   *string `json:"slug" yaml:"slug"`
		Name   *string `json:"name" yaml:"name"`
	}

	metaView struct {
		Key   string  `json:"key" yaml:"key"`
		Value *string `json:"value" yaml:"value"`
	}

	commentView struct {
		ID          string  `json:"id" yaml:"id"`
		Author      *string `json:"author" yaml:"author"`
		AuthorEmail *string `json:"author_email" yaml:"author_email"`
		AuthorURL   *string `json:"author_url" yaml:"author_url"`
		AuthorIP    *string `json:"author_ip" yaml:"author_ip"`
		Date        *string `json:"date" yaml:"date"`
		DateGMT     *string `json:"date_gmt" yaml:"date_gmt"`
		Content     *string `json:"content" yaml:"content"`
		Approved    *string `json:"approved" yaml:"approved"`
		Type        *string `json:"type" yaml:"type"`
		UserID      *string `json:"user_id" yaml:"user_id"`
		Parent      *string `json:"parent" yaml:"parent"`
	}

	postView struct {
		PostID          *string       `json:"post_id" yaml:"post_id"`
		Title           *string       `json:"title" yaml:"title"`
		Link            *string       `json:"link" yaml:"link"`
		PubDate         *string       `json:"pub_date" yaml:"pub_date"`
		Creator         *string       `json:"creator" yaml:"creator"`
		GUID            *string       `json:"guid" yaml:"guid"`
		Description     *string       `json:"description" yaml:"description"`
		Content         *string       `json:"content" yaml:"content"`
		Excerpt         *string       `json:"excerpt" yaml:"excerpt"`
		PostDate        *string       `json:"post_date" yaml:"post_date"`
		PostDateGMT     *string       `json:"post_date_gmt" yaml:"post_date_gmt"`
		PostModified    *string       `json:"post_modified" yaml:"post_modified"`
		PostModifiedGMT *string       `json:"post_modified_gmt" yaml:"post_modified_gmt"`
		PostName        *string       `json:"post_name" yaml:"post_name"`
		Status          *string       `json:"status" yaml:"status"`
		PostParent      *string       `json:"post_parent" yaml:"post_parent"`
		MenuOrder       *string       `json:"menu_order" yaml:"menu_order"`
		PostType        *string       `json:"post_type" yaml:"post_type"`
		PostPassword    *string       `json:"post_password" yaml:"post_password"`
		IsSticky        *string       `json:"is_sticky" yaml:"is_sticky"`
		CommentStatus   *string       `json:"comment_status" yaml:"comment_status"`
		PingStatus      *string       `json:"ping_status" yaml:"ping_status"`
		AttachmentURL   *string       `json:"attachment_url" yaml:"attachment_url"`
		Categories      []string      `json:"categories" yaml:"categories"`
		Tags            []string      `json:"tags" yaml:"tags"`
		Meta            []metaView    `json:"postmeta" yaml:"postmeta"`
		Comments        []commentView `json:"comments" yaml:"comments"`
	}

	documentView struct {
		Blog       blogView       `json:"blog" yaml:"blog"`
		Authors    []authorView   `json:"authors" yaml:"authors"`
		Categories []categoryView `json:"categories" yaml:"categories"`
		Tags       []tagView      `json:"tags" yaml:"tags"`
		Posts      []postView     `json:"posts" yaml:"posts"`
	}
)

func buildView(rec *wxr.Document) documentView {
	view := documentView{
		Blog: blogView{
			Title:      rec.Blog.Title,
			Tagline:    rec.Blog.Tagline,
			Language:   rec.Blog.Language,
			SiteURL:    rec.Blog.SiteURL,
			BlogURL:    rec.Blog.BlogURL,
			WXRVersion: rec.Blog.WXRVersion,
		},
		Authors:    make([]authorView, 0, len(rec.Authors)),
		Categories: buildCategoryViews(rec.Categories),
		Tags:       make([]tagView, 0, len(rec.Tags)),
		Posts:      make([]postView, 0, len(rec.Posts)),
	}

	for _, a := range rec.Authors {
		view.Authors = append(view.Authors, authorView{
			Login:       a.Login,
			Email:       a.Email,
			DisplayName: a.DisplayName,
			FirstName:   a.FirstName,
			LastName:    a.LastName,
		})
	}

	for _, t := range rec.Tags {
		view.Tags = append(view.Tags, tagView{TermID: t.TermID, Slug: t.Slug, Name: t.Name})
	}

	for i := range rec.Posts {
		view.Posts = append(view.Posts, buildPostView(&rec.Posts[i]))
	}

	return view
}

func buildCategoryViews(categories []*wxr.Category) []categoryView {
	result := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		result = append(result, categoryView{
			TermID:   c.TermID,
			Nicename: c.Nicename,
			Name:     c.Name,
			Parent:   c.Parent,
			Children: buildCategoryViews(c.Children),
		})
	}
	return result
}

func buildPostView(p *wxr.Post) postView {
	view := postView{
		PostID:          p.PostID,
		Title:           p.Title,
		Link:            p.Link,
		PubDate:         p.PubDate,
		Creator:         p.Creator,
		GUID:            p.GUID,
		Description:     p.Description,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		PostDate:        p.PostDate,
		PostDateGMT:     p.PostDateGMT,
		PostModified:    p.PostModified,
		PostModifiedGMT: p.PostModifiedGMT,
		PostName:        p.PostName,
		Status:          p.Status,
		PostParent:      p.PostParent,
		MenuOrder:       p.MenuOrder,
		PostType:        p.PostType,
		PostPassword:    p.PostPassword,
		IsSticky:        p.IsSticky,
		CommentStatus:   p.CommentStatus,
		PingStatus:      p.PingStatus,
		AttachmentURL:   p.AttachmentURL,
		Categories:      p.Categories,
		Tags:            p.Tags,
		Meta:            make([]metaView, 0, len(p.Meta)),
		Comments:        make([]commentView, 0, len(p.Comments)),
	}

	for _, m := range p.Meta {
		view.Meta = append(view.Meta, metaView{Key: m.Key, Value: m.Value})
	}

	for _, c := range p.Comments {
		view.Comments = append(view.Comments, commentView{
			ID:          c.ID,
			Author:      c.Author,
			AuthorEmail: c.AuthorEmail,
			AuthorURL:   c.AuthorURL,
			AuthorIP:    c.AuthorIP,
			Date:        c.Date,
			DateGMT:     c.DateGMT,
			Content:     c.Content,
			Approved:    c.Approved,
			Type:        c.Type,
			UserID:      c.UserID,
			Parent:      c.Parent,
		})
	}

	return view
}
