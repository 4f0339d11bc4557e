package wxr

import (
	"strconv"

	"wpparser/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the parsed export, nullability kept
// visible and post content reduced to byte counts to stay compact. It
// exists solely for manual inspection during debugging.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	return treeWriter{debug.NewTreeWriter()}.document(d).String()
}

func (tw treeWriter) document(d *Document) treeWriter {
	tw.Line(0, "Document")
	tw.blog(1, &d.Blog)
	if len(d.Authors) > 0 {
		tw.Line(1, "Authors: %d", len(d.Authors))
		for i := range d.Authors {
			tw.author(2, i, &d.Authors[i])
		}
	}
	if len(d.Categories) > 0 {
		tw.Line(1, "Categories: %d", len(d.Categories))
		for i, cat := range d.Categories {
			tw.category(2, i, cat)
		}
	}
	if len(d.Tags) > 0 {
		tw.Line(1, "Tags: %d", len(d.Tags))
		for i := range d.Tags {
			tag := &d.Tags[i]
			tw.Line(2, "Tag[%d] slug=%s name=%s termID=%s", i, optq(tag.Slug), optq(tag.Name), optq(tag.TermID))
		}
	}
	if len(d.Posts) > 0 {
		tw.Line(1, "Posts: %d", len(d.Posts))
		for i := range d.Posts {
			tw.post(2, i, &d.Posts[i])
		}
	}
	return tw
}

func (tw treeWriter) blog(depth int, blog *Blog) {
	tw.Line(depth, "Blog title=%s tagline=%s language=%s", optq(blog.Title), optq(blog.Tagline), optq(blog.Language))
	tw.Line(depth+1, "siteURL=%s blogURL=%s wxrVersion=%s", optq(blog.SiteURL), optq(blog.BlogURL), optq(blog.WXRVersion))
}

func (tw treeWriter) author(depth, i int, author *Author) {
	tw.Line(depth, "Author[%d] login=%s email=%s displayName=%s first=%s last=%s",
		i, optq(author.Login), optq(author.Email), optq(author.DisplayName), optq(author.FirstName), optq(author.LastName))
}

func (tw treeWriter) category(depth, i int, cat *Category) {
	tw.Line(depth, "Category[%d] nicename=%s name=%s termID=%s parent=%s", i, optq(cat.Nicename), optq(cat.Name), optq(cat.TermID), optq(cat.Parent))
	for j, child := range cat.Children {
		tw.category(depth+1, j, child)
	}
}

func (tw treeWriter) post(depth, i int, post *Post) {
	tw.Line(depth, "Post[%d] id=%s type=%s status=%s name=%s", i, optq(post.PostID), optq(post.PostType), optq(post.Status), optq(post.PostName))
	tw.Line(depth+1, "title=%s creator=%s link=%s guid=%s", optq(post.Title), optq(post.Creator), optq(post.Link), optq(post.GUID))
	tw.Line(depth+1, "pubDate=%s postDate=%s postDateGMT=%s modified=%s modifiedGMT=%s",
		optq(post.PubDate), optq(post.PostDate), optq(post.PostDateGMT), optq(post.PostModified), optq(post.PostModifiedGMT))
	tw.Line(depth+1, "commentStatus=%s pingStatus=%s postParent=%s menuOrder=%s sticky=%s password=%s",
		optq(post.CommentStatus), optq(post.PingStatus), optq(post.PostParent), optq(post.MenuOrder), optq(post.IsSticky), optq(post.PostPassword))
	if post.AttachmentURL != nil || post.AttachedFile() != nil {
		tw.Line(depth+1, "attachmentURL=%s attachedFile=%s", optq(post.AttachmentURL), optq(post.AttachedFile()))
	}
	if post.Description != nil {
		tw.TextBlock(depth+1, "Description", *post.Description)
	}
	if post.Content != nil {
		tw.Line(depth+1, "Content: %d bytes", len(*post.Content))
	}
	if post.Excerpt != nil {
		tw.Line(depth+1, "Excerpt: %d bytes", len(*post.Excerpt))
	}
	if len(post.Categories) > 0 {
		tw.Line(depth+1, "Categories: %q", post.Categories)
	}
	if len(post.Tags) > 0 {
		tw.Line(depth+1, "Tags: %q", post.Tags)
	}
	for j := range post.Meta {
		m := &post.Meta[j]
		tw.Line(depth+1, "Meta[%d] key=%q value=%s", j, m.Key, optq(m.Value))
	}
	for j := range post.Comments {
		tw.comment(depth+1, j, &post.Comments[j])
	}
}

func (tw treeWriter) comment(depth, i int, comment *Comment) {
	tw.Line(depth, "Comment[%d] id=%q author=%s email=%s date=%s approved=%s type=%s",
		i, comment.ID, optq(comment.Author), optq(comment.AuthorEmail), optq(comment.Date), optq(comment.Approved), optq(comment.Type))
	if comment.Content != nil {
		tw.TextBlock(depth+1, "Content", *comment.Content)
	}
}

// optq quotes a nullable value for dump output, keeping nil visible.
func optq(v *string) string {
	if v == nil {
		return "<nil>"
	}
	return strconv.Quote(*v)
}
