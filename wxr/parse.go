package wxr

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Namespace URIs of the export vocabularies. Prefixes vary between export
// tool versions, so elements are matched by resolved URI, never by prefix.
// The wordpress.org vocabularies are versioned (1.0, 1.1, 1.2); the 1.2
// URIs below are defaults overridden by whatever the document declares.
const (
	exportNamespacePrefix   = "http://wordpress.org/export/"
	defaultWPNamespace      = "http://wordpress.org/export/1.2/"
	defaultExcerptNamespace = "http://wordpress.org/export/1.2/excerpt/"
	contentNamespace        = "http://purl.org/rss/1.0/modules/content/"
	dcNamespace             = "http://purl.org/dc/elements/1.1/"
)

const defaultPostType = "post"

// namespaces holds the vocabulary URIs in effect for one document.
type namespaces struct {
	wp      string
	excerpt string
	content string
	dc      string
}

// detectNamespaces reads the xmlns declarations off the root element. The
// excerpt vocabulary shares the wordpress.org prefix with the main one and
// is told apart by its /excerpt/ suffix.
func detectNamespaces(root *etree.Element) namespaces {
	ns := namespaces{
		wp:      defaultWPNamespace,
		excerpt: defaultExcerptNamespace,
		content: contentNamespace,
		dc:      dcNamespace,
	}
	for _, attr := range root.Attr {
		if attr.Space != "xmlns" {
			continue
		}
		switch {
		case strings.HasPrefix(attr.Value, exportNamespacePrefix) && strings.HasSuffix(attr.Value, "/excerpt/"):
			ns.excerpt = attr.Value
		case strings.HasPrefix(attr.Value, exportNamespacePrefix):
			ns.wp = attr.Value
		}
	}
	return ns
}

// ParseFile loads the WXR export at path and parses it. Load failures come
// back as *LoadError; see ParseDocument for the rest.
func ParseFile(path string, log *zap.Logger) (*Document, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(doc, log)
}

// ParseDocument extracts the record tree from a loaded export document.
// Errors are reserved for structural impossibilities (no rss root, no
// channel); absent or empty fields never fail, they surface as nil.
func ParseDocument(doc *etree.Document, log *zap.Logger) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "rss" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}
	channel := findChild(root, "", "channel")
	if channel == nil {
		return nil, fmt.Errorf("export has no channel element")
	}

	ns := detectNamespaces(root)

	export := &Document{
		Blog:       parseBlog(channel, ns),
		Authors:    []Author{},
		Categories: []*Category{},
		Tags:       []Tag{},
		Posts:      []Post{},
	}

	for _, child := range channel.ChildElements() {
		uri := child.NamespaceURI()
		switch {
		case child.Tag == "item" && child.Space == "":
			export.Posts = append(export.Posts, parseItem(child, ns, log))
		case child.Tag == "author" && uri == ns.wp:
			export.Authors = append(export.Authors, parseAuthor(child, log))
		case child.Tag == "category" && uri == ns.wp:
			export.Categories = append(export.Categories, parseCategory(child, log))
		case child.Tag == "tag" && uri == ns.wp:
			export.Tags = append(export.Tags, parseTag(child, log))
		default:
			// RSS channels legitimately carry generator stamps, sy:
			// hints and similar noise next to the export payload.
			log.Debug("Skipping unhandled channel element", zap.String("tag", child.Tag), zap.String("xmlns", uri))
		}
	}

	export.Categories = buildCategoryForest(export.Categories, log)

	return export, nil
}

// parseBlog picks the site metadata off the channel element. The RSS
// description doubles as the blog tagline.
func parseBlog(channel *etree.Element, ns namespaces) Blog {
	return Blog{
		Title:      childText(channel, "", "title"),
		Tagline:    childText(channel, "", "description"),
		Language:   childText(channel, "", "language"),
		SiteURL:    childText(channel, ns.wp, "base_site_url"),
		BlogURL:    childText(channel, ns.wp, "base_blog_url"),
		WXRVersion: childText(channel, ns.wp, "wxr_version"),
	}
}

func parseAuthor(el *etree.Element, log *zap.Logger) Author {
	var author Author
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "author_id":
			// numeric alias of author_login, not carried over
		case "author_login":
			author.Login = optText(child.Text())
		case "author_email":
			author.Email = optText(child.Text())
		case "author_display_name":
			author.DisplayName = optText(child.Text())
		case "author_first_name":
			author.FirstName = optText(child.Text())
		case "author_last_name":
			author.LastName = optText(child.Text())
		default:
			log.Warn("Unexpected tag in author, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return author
}

func parseCategory(el *etree.Element, log *zap.Logger) *Category {
	cat := &Category{Children: []*Category{}}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "term_id":
			cat.TermID = optText(child.Text())
		case "category_nicename":
			cat.Nicename = optText(child.Text())
		case "category_parent":
			cat.Parent = optText(child.Text())
		case "cat_name":
			cat.Name = optText(child.Text())
		case "category_description":
			// descriptions are not part of the record tree
		default:
			log.Warn("Unexpected tag in category, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return cat
}

func parseTag(el *etree.Element, log *zap.Logger) Tag {
	var tag Tag
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "term_id":
			tag.TermID = optText(child.Text())
		case "tag_slug":
			tag.Slug = optText(child.Text())
		case "tag_name":
			tag.Name = optText(child.Text())
		case "tag_description":
			// descriptions are not part of the record tree
		default:
			log.Warn("Unexpected tag in tag, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return tag
}

// parseItem assembles one post. Scalars resolve first match wins, the
// child walk below collects the ordered category, postmeta and comment
// sequences.
func parseItem(el *etree.Element, ns namespaces, log *zap.Logger) Post {
	post := Post{
		Title:           childText(el, "", "title"),
		Link:            childText(el, "", "link"),
		PubDate:         childText(el, "", "pubDate"),
		Creator:         childText(el, ns.dc, "creator"),
		GUID:            childText(el, "", "guid"),
		Description:     childText(el, "", "description"),
		Content:         childText(el, ns.content, "encoded"),
		Excerpt:         childText(el, ns.excerpt, "encoded"),
		PostID:          childText(el, ns.wp, "post_id"),
		PostDate:        childText(el, ns.wp, "post_date"),
		PostDateGMT:     childText(el, ns.wp, "post_date_gmt"),
		PostModified:    childText(el, ns.wp, "post_modified"),
		PostModifiedGMT: childText(el, ns.wp, "post_modified_gmt"),
		PostName:        childText(el, ns.wp, "post_name"),
		Status:          childText(el, ns.wp, "status"),
		PostParent:      childText(el, ns.wp, "post_parent"),
		MenuOrder:       childText(el, ns.wp, "menu_order"),
		PostType:        childText(el, ns.wp, "post_type"),
		PostPassword:    childText(el, ns.wp, "post_password"),
		IsSticky:        childText(el, ns.wp, "is_sticky"),
		CommentStatus:   childText(el, ns.wp, "comment_status"),
		PingStatus:      childText(el, ns.wp, "ping_status"),
		AttachmentURL:   childText(el, ns.wp, "attachment_url"),
		Categories:      []string{},
		Tags:            []string{},
		Meta:            []Meta{},
		Comments:        []Comment{},
	}
	if post.PostType == nil {
		postType := defaultPostType
		post.PostType = &postType
	}

	for _, child := range el.ChildElements() {
		switch {
		case child.Tag == "category" && child.Space == "":
			parseItemCategory(child, &post, log)
		case child.Tag == "postmeta" && child.NamespaceURI() == ns.wp:
			post.Meta = append(post.Meta, parsePostmeta(child, log))
		case child.Tag == "comment" && child.NamespaceURI() == ns.wp:
			post.Comments = append(post.Comments, parseComment(child, log))
		}
	}
	return post
}

// parseItemCategory files one taxonomy reference of an item under the list
// its domain attribute selects. The display text is the stored name.
func parseItemCategory(el *etree.Element, post *Post, log *zap.Logger) {
	text := strings.TrimSpace(el.Text())
	if len(text) == 0 {
		log.Debug("Empty category value on item, skipping", zap.String("domain", el.SelectAttrValue("domain", "")))
		return
	}
	switch domain := el.SelectAttrValue("domain", ""); domain {
	case "category":
		post.Categories = append(post.Categories, text)
	case "post_tag":
		post.Tags = append(post.Tags, text)
	default:
		log.Debug("Skipping item category with unhandled domain", zap.String("domain", domain), zap.String("value", text))
	}
}

func parsePostmeta(el *etree.Element, log *zap.Logger) Meta {
	var meta Meta
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "meta_key":
			meta.Key = strings.TrimSpace(child.Text())
		case "meta_value":
			meta.Value = optText(child.Text())
		default:
			log.Warn("Unexpected tag in postmeta, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return meta
}

func parseComment(el *etree.Element, log *zap.Logger) Comment {
	var comment Comment
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "comment_id":
			comment.ID = strings.TrimSpace(child.Text())
		case "comment_author":
			comment.Author = optText(child.Text())
		case "comment_author_email":
			comment.AuthorEmail = optText(child.Text())
		case "comment_author_url":
			comment.AuthorURL = optText(child.Text())
		case "comment_author_IP":
			comment.AuthorIP = optText(child.Text())
		case "comment_date":
			comment.Date = optText(child.Text())
		case "comment_date_gmt":
			comment.DateGMT = optText(child.Text())
		case "comment_content":
			comment.Content = optText(child.Text())
		case "comment_approved":
			comment.Approved = optText(child.Text())
		case "comment_type":
			comment.Type = optText(child.Text())
		case "comment_user_id":
			comment.UserID = optText(child.Text())
		case "comment_parent":
			comment.Parent = optText(child.Text())
		case "commentmeta":
			// comment metadata is not carried over
		default:
			log.Warn("Unexpected tag in comment, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return comment
}

// findChild returns the first child element with the given tag whose
// namespace resolves to uri. Empty uri selects children without a
// namespace prefix.
func findChild(el *etree.Element, uri, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag != tag {
			continue
		}
		if uri == "" {
			if child.Space == "" {
				return child
			}
			continue
		}
		if child.NamespaceURI() == uri {
			return child
		}
	}
	return nil
}

// childText extracts the trimmed text of the first matching child element.
// Absent elements and empty values both come back as nil.
func childText(el *etree.Element, uri, tag string) *string {
	child := findChild(el, uri, tag)
	if child == nil {
		return nil
	}
	return optText(child.Text())
}

// optText converts raw element text to the nullable form used across the
// record tree.
func optText(raw string) *string {
	text := strings.TrimSpace(raw)
	if len(text) == 0 {
		return nil
	}
	return &text
}
