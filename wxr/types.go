// Package wxr parses WordPress eXtended RSS (WXR) export documents into a
// typed record tree: blog metadata, authors, hierarchical categories, tags
// and posts with their comments. Field values are kept source-verbatim,
// absent or empty fields surface as nil.
package wxr

// Blog carries the channel level metadata of the exported site.
type Blog struct {
	Title      *string
	Tagline    *string
	Language   *string
	SiteURL    *string
	BlogURL    *string
	WXRVersion *string
}

// Author mirrors wp:author.
type Author struct {
	Login       *string
	Email       *string
	DisplayName *string
	FirstName   *string
	LastName    *string
}

// Category mirrors wp:category. Parent names another category by its
// Nicename. After parsing, a category whose Parent resolves sits in that
// parent's Children; only roots and categories with dangling parents stay
// at the document top level.
type Category struct {
	TermID   *string
	Nicename *string
	Name     *string
	Parent   *string
	Children []*Category
}

// Tag mirrors wp:tag. Tags are flat, there is no hierarchy to rebuild.
type Tag struct {
	TermID *string
	Slug   *string
	Name   *string
}

// Meta is a single wp:postmeta key/value pair. Values are stored verbatim,
// including PHP-serialized blobs some plugins keep there.
type Meta struct {
	Key   string
	Value *string
}

// Comment mirrors wp:comment. Parent is the referenced comment id kept
// verbatim, never resolved into reply nesting.
type Comment struct {
	ID          string
	Author      *string
	AuthorEmail *string
	AuthorURL   *string
	AuthorIP    *string
	Date        *string
	DateGMT     *string
	Content     *string
	Approved    *string
	Type        *string
	UserID      *string
	Parent      *string
}

// Post mirrors item. Categories and Tags hold the display text of the
// item's category references partitioned by their domain attribute. All
// sequences preserve document order and are never nil.
type Post struct {
	PostID          *string
	Title           *string
	Link            *string
	PubDate         *string
	Creator         *string
	GUID            *string
	Description     *string
	Content         *string
	Excerpt         *string
	PostDate        *string
	PostDateGMT     *string
	PostModified    *string
	PostModifiedGMT *string
	PostName        *string
	Status          *string
	PostParent      *string
	MenuOrder       *string
	PostType        *string // never nil, absent element defaults to "post"
	PostPassword    *string
	IsSticky        *string
	CommentStatus   *string
	PingStatus      *string
	AttachmentURL   *string

	Categories []string
	Tags       []string
	Meta       []Meta
	Comments   []Comment
}

// Document is the complete parsed export.
type Document struct {
	Blog       Blog
	Authors    []Author
	Categories []*Category
	Tags       []Tag
	Posts      []Post
}

// WordPress stores the upload-relative file path of an attachment under
// this postmeta key.
const attachedFileKey = "_wp_attached_file"

// MetaValue returns the value of the first postmeta entry with the given
// key and whether such an entry exists.
func (p *Post) MetaValue(key string) (*string, bool) {
	for _, m := range p.Meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// AttachedFile returns the upload-relative path of an attachment item, nil
// for regular posts.
func (p *Post) AttachedFile() *string {
	value, _ := p.MetaValue(attachedFileKey)
	return value
}
