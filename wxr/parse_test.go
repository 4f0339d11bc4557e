package wxr

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestParseSampleExport(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	path := filepath.Clean(sampleWXR)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample file missing: %v", err)
	}

	doc := loadSampleDocument(t)
	export, err := ParseDocument(doc, log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	assertText(t, "blog title", export.Blog.Title, "Frozen Fjord Journal")
	assertText(t, "blog tagline", export.Blog.Tagline, "Notes from the far north")
	assertText(t, "blog language", export.Blog.Language, "en-US")
	assertText(t, "site url", export.Blog.SiteURL, "http://fjordjournal.example.org")
	assertText(t, "blog url", export.Blog.BlogURL, "http://fjordjournal.example.org")
	assertText(t, "wxr version", export.Blog.WXRVersion, "1.2")

	if len(export.Authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(export.Authors))
	}
	assertText(t, "author login", export.Authors[0].Login, "ingrid")
	assertText(t, "author display name", export.Authors[0].DisplayName, "Ingrid Solberg")
	assertNil(t, "guest first name", export.Authors[1].FirstName)
	assertNil(t, "guest last name", export.Authors[1].LastName)

	if len(export.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(export.Tags))
	}
	assertText(t, "tag slug", export.Tags[0].Slug, "hiking")
	assertText(t, "tag name", export.Tags[1].Name, "Photography")

	if len(export.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(export.Posts))
	}
}

func TestSampleCategoryForest(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	export, err := ParseDocument(loadSampleDocument(t), log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if len(export.Categories) != 2 {
		t.Fatalf("expected 2 top level categories, got %d", len(export.Categories))
	}
	travel, misc := export.Categories[0], export.Categories[1]
	assertText(t, "first root", travel.Nicename, "travel")
	assertText(t, "second root", misc.Nicename, "misc")
	if len(misc.Children) != 0 {
		t.Errorf("dangling parent category must stay a leaf, got %d children", len(misc.Children))
	}
	assertText(t, "dangling parent kept verbatim", misc.Parent, "lost-continent")

	if len(travel.Children) != 1 {
		t.Fatalf("expected 1 child under travel, got %d", len(travel.Children))
	}
	norway := travel.Children[0]
	assertText(t, "travel child", norway.Nicename, "norway")
	if len(norway.Children) != 1 {
		t.Fatalf("expected 1 child under norway, got %d", len(norway.Children))
	}
	assertText(t, "norway child", norway.Children[0].Nicename, "fjords")
}

func TestSamplePosts(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	export, err := ParseDocument(loadSampleDocument(t), log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(export.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(export.Posts))
	}

	post := export.Posts[0]
	assertText(t, "post id", post.PostID, "11")
	assertText(t, "post type", post.PostType, "post")
	assertText(t, "post creator", post.Creator, "ingrid")
	assertText(t, "post modified gmt", post.PostModifiedGMT, "2015-06-23 06:15:02")
	assertNil(t, "empty description", post.Description)
	assertNil(t, "empty excerpt", post.Excerpt)
	assertNil(t, "empty password", post.PostPassword)
	if post.Content == nil {
		t.Fatal("expected post content")
	}
	if !reflect.DeepEqual(post.Categories, []string{"Norway", "Travel"}) {
		t.Errorf("unexpected post categories: %q", post.Categories)
	}
	if !reflect.DeepEqual(post.Tags, []string{"Hiking", "Photography"}) {
		t.Errorf("unexpected post tags: %q", post.Tags)
	}
	if len(post.Meta) != 1 || post.Meta[0].Key != "_edit_last" {
		t.Errorf("unexpected post meta: %+v", post.Meta)
	}
	if len(post.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(post.Comments))
	}
	if post.Comments[0].ID != "3" || post.Comments[1].ID != "4" {
		t.Errorf("unexpected comment ids: %q, %q", post.Comments[0].ID, post.Comments[1].ID)
	}
	assertText(t, "reply parent", post.Comments[1].Parent, "3")
	assertText(t, "reply author IP", post.Comments[1].AuthorIP, "198.51.100.7")
	assertNil(t, "empty comment type", post.Comments[0].Type)

	page := export.Posts[1]
	assertText(t, "page type", page.PostType, "page")
	assertNil(t, "whitespace only description", page.Description)
	if page.Comments == nil || len(page.Comments) != 0 {
		t.Errorf("page comments must be empty and non-nil, got %#v", page.Comments)
	}
	if page.Categories == nil || page.Tags == nil || page.Meta == nil {
		t.Error("page sequences must be non-nil")
	}

	attachment := export.Posts[2]
	assertText(t, "attachment type", attachment.PostType, "attachment")
	assertText(t, "attachment url", attachment.AttachmentURL, "http://fjordjournal.example.org/wp-content/uploads/2015/06/fjord.jpg")
	assertText(t, "attached file", attachment.AttachedFile(), "2015/06/fjord.jpg")
	if _, ok := attachment.MetaValue("_wp_attachment_metadata"); !ok {
		t.Error("expected serialized attachment metadata to be kept verbatim")
	}
	if _, ok := attachment.MetaValue("_thumbnail_id"); ok {
		t.Error("unexpected meta entry reported present")
	}
}

func TestParseIdempotence(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	first, err := ParseFile(sampleWXR, log)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := ParseFile(sampleWXR, log)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same file twice produced different records")
	}
}

func mustElement(t *testing.T, xml string) *etree.Element {
	t.Helper()

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("read xml: %v", err)
	}
	if doc.Root() == nil {
		t.Fatalf("xml has no root element")
	}
	return doc.Root()
}

func mustDocument(t *testing.T, xml string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("read xml: %v", err)
	}
	return doc
}

func assertText(t *testing.T, label string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: expected %q, got nil", label, want)
	}
	if *got != want {
		t.Fatalf("%s: expected %q, got %q", label, want, *got)
	}
}

func assertNil(t *testing.T, label string, got *string) {
	t.Helper()
	if got != nil {
		t.Fatalf("%s: expected nil, got %q", label, *got)
	}
}

func TestParseMinimalChannel(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	export, err := ParseDocument(mustDocument(t, `<rss><channel><title>Bare</title></channel></rss>`), log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	assertText(t, "title", export.Blog.Title, "Bare")
	assertNil(t, "tagline", export.Blog.Tagline)
	assertNil(t, "language", export.Blog.Language)
	assertNil(t, "site url", export.Blog.SiteURL)
	assertNil(t, "blog url", export.Blog.BlogURL)
	assertNil(t, "wxr version", export.Blog.WXRVersion)
	if export.Authors == nil || export.Categories == nil || export.Tags == nil || export.Posts == nil {
		t.Error("document sequences must be non-nil")
	}
	if len(export.Posts) != 0 {
		t.Errorf("expected no posts, got %d", len(export.Posts))
	}
}

func TestParseDocumentGuards(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	if _, err := ParseDocument(nil, log); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := ParseDocument(etree.NewDocument(), log); err == nil {
		t.Error("expected error for document without root")
	}
	if _, err := ParseDocument(mustDocument(t, `<feed></feed>`), log); err == nil {
		t.Error("expected error for non-rss root")
	}
	if _, err := ParseDocument(mustDocument(t, `<rss version="2.0"></rss>`), log); err == nil {
		t.Error("expected error for rss without channel")
	}
}

func TestParseOlderExportVersion(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	export, err := ParseDocument(mustDocument(t, `<rss
		xmlns:wordpress="http://wordpress.org/export/1.0/"
		xmlns:excerpt="http://wordpress.org/export/1.0/excerpt/">
		<channel>
			<title>Legacy</title>
			<wordpress:wxr_version>1.0</wordpress:wxr_version>
			<wordpress:base_site_url>http://legacy.example.org</wordpress:base_site_url>
			<item>
				<wordpress:post_id>7</wordpress:post_id>
				<excerpt:encoded>short version</excerpt:encoded>
			</item>
		</channel>
	</rss>`), log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	assertText(t, "wxr version", export.Blog.WXRVersion, "1.0")
	assertText(t, "site url", export.Blog.SiteURL, "http://legacy.example.org")
	if len(export.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(export.Posts))
	}
	assertText(t, "post id", export.Posts[0].PostID, "7")
	assertText(t, "excerpt", export.Posts[0].Excerpt, "short version")
}

func TestParseAuthor(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	author := parseAuthor(mustElement(t, `<wp:author>
		<wp:author_id>3</wp:author_id>
		<wp:author_login>edla</wp:author_login>
		<wp:author_email>edla@example.org</wp:author_email>
		<wp:author_display_name><![CDATA[Edla M.]]></wp:author_display_name>
		<wp:author_first_name><![CDATA[Edla]]></wp:author_first_name>
		<wp:author_last_name><![CDATA[]]></wp:author_last_name>
	</wp:author>`), log)

	assertText(t, "login", author.Login, "edla")
	assertText(t, "email", author.Email, "edla@example.org")
	assertText(t, "display name", author.DisplayName, "Edla M.")
	assertText(t, "first name", author.FirstName, "Edla")
	assertNil(t, "last name", author.LastName)
}

func TestParseCategory(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	cat := parseCategory(mustElement(t, `<wp:category>
		<wp:term_id>5</wp:term_id>
		<wp:category_nicename>recipes</wp:category_nicename>
		<wp:category_parent></wp:category_parent>
		<wp:cat_name><![CDATA[Recipes]]></wp:cat_name>
	</wp:category>`), log)

	assertText(t, "term id", cat.TermID, "5")
	assertText(t, "nicename", cat.Nicename, "recipes")
	assertText(t, "name", cat.Name, "Recipes")
	assertNil(t, "empty parent", cat.Parent)
	if cat.Children == nil || len(cat.Children) != 0 {
		t.Errorf("children must start empty and non-nil, got %#v", cat.Children)
	}
}

func TestParseItemCategoryDomains(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	el := mustElement(t, `<item>
		<title>Shell notes</title>
		<category domain="post_tag" nicename="bash"><![CDATA[bash]]></category>
		<category domain="post_tag" nicename="linux"><![CDATA[linux]]></category>
		<category domain="category" nicename="cooking"><![CDATA[Cooking]]></category>
		<category domain="post_format" nicename="post-format-aside"><![CDATA[Aside]]></category>
		<category domain="post_tag" nicename="empty"><![CDATA[]]></category>
	</item>`)
	post := parseItem(el, detectNamespaces(el), log)

	if !reflect.DeepEqual(post.Tags, []string{"bash", "linux"}) {
		t.Errorf("unexpected tags: %q", post.Tags)
	}
	if !reflect.DeepEqual(post.Categories, []string{"Cooking"}) {
		t.Errorf("unexpected categories: %q", post.Categories)
	}
}

func TestParseItemDefaults(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	el := mustElement(t, `<item>
		<title>Untyped</title>
		<description>  </description>
	</item>`)
	post := parseItem(el, detectNamespaces(el), log)

	assertText(t, "default post type", post.PostType, "post")
	assertNil(t, "whitespace only description", post.Description)
	if post.Comments == nil || len(post.Comments) != 0 {
		t.Errorf("comments must be empty and non-nil, got %#v", post.Comments)
	}
	if post.Categories == nil || post.Tags == nil || post.Meta == nil {
		t.Error("item sequences must be non-nil")
	}
}

func TestParseComment(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	comment := parseComment(mustElement(t, `<wp:comment>
		<wp:comment_id>42</wp:comment_id>
		<wp:comment_author><![CDATA[Nils]]></wp:comment_author>
		<wp:comment_author_email>nils@example.org</wp:comment_author_email>
		<wp:comment_author_url></wp:comment_author_url>
		<wp:comment_author_IP>203.0.113.9</wp:comment_author_IP>
		<wp:comment_date>2015-07-01 10:00:00</wp:comment_date>
		<wp:comment_date_gmt>2015-07-01 08:00:00</wp:comment_date_gmt>
		<wp:comment_content><![CDATA[Which trail did you take?]]></wp:comment_content>
		<wp:comment_approved>1</wp:comment_approved>
		<wp:comment_type></wp:comment_type>
		<wp:comment_parent>0</wp:comment_parent>
		<wp:comment_user_id>0</wp:comment_user_id>
	</wp:comment>`), log)

	if comment.ID != "42" {
		t.Errorf("expected comment id 42, got %q", comment.ID)
	}
	assertText(t, "author", comment.Author, "Nils")
	assertText(t, "author IP", comment.AuthorIP, "203.0.113.9")
	assertText(t, "approved", comment.Approved, "1")
	assertNil(t, "empty url", comment.AuthorURL)
	assertNil(t, "empty type", comment.Type)

	bare := parseComment(mustElement(t, `<wp:comment><wp:comment_author>anon</wp:comment_author></wp:comment>`), log)
	if bare.ID != "" {
		t.Errorf("expected empty id for comment without one, got %q", bare.ID)
	}
}

func TestParsePostmeta(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	meta := parsePostmeta(mustElement(t, `<wp:postmeta>
		<wp:meta_key>_wp_attached_file</wp:meta_key>
		<wp:meta_value><![CDATA[2015/06/fjord.jpg]]></wp:meta_value>
	</wp:postmeta>`), log)

	if meta.Key != "_wp_attached_file" {
		t.Errorf("unexpected meta key %q", meta.Key)
	}
	assertText(t, "meta value", meta.Value, "2015/06/fjord.jpg")

	empty := parsePostmeta(mustElement(t, `<wp:postmeta><wp:meta_key>flag</wp:meta_key><wp:meta_value></wp:meta_value></wp:postmeta>`), log)
	assertNil(t, "empty meta value", empty.Value)
}

func TestChildText(t *testing.T) {
	el := mustElement(t, `<item xmlns:wp="http://wordpress.org/export/1.2/">
		<status>first</status>
		<status>second</status>
		<wp:status>namespaced</wp:status>
		<blank>   </blank>
	</item>`)

	assertText(t, "first match wins", childText(el, "", "status"), "first")
	assertText(t, "namespace match", childText(el, defaultWPNamespace, "status"), "namespaced")
	assertNil(t, "whitespace only", childText(el, "", "blank"))
	assertNil(t, "missing element", childText(el, "", "nothing"))
	assertNil(t, "wrong namespace", childText(el, contentNamespace, "status"))
}

func TestDetectNamespaces(t *testing.T) {
	ns := detectNamespaces(mustElement(t, `<rss
		xmlns:excerpt="http://wordpress.org/export/1.1/excerpt/"
		xmlns:wp="http://wordpress.org/export/1.1/"></rss>`))
	if ns.wp != "http://wordpress.org/export/1.1/" {
		t.Errorf("unexpected wp namespace %q", ns.wp)
	}
	if ns.excerpt != "http://wordpress.org/export/1.1/excerpt/" {
		t.Errorf("unexpected excerpt namespace %q", ns.excerpt)
	}

	ns = detectNamespaces(mustElement(t, `<rss version="2.0"></rss>`))
	if ns.wp != defaultWPNamespace || ns.excerpt != defaultExcerptNamespace {
		t.Errorf("expected default namespaces, got %+v", ns)
	}
	if ns.content != contentNamespace || ns.dc != dcNamespace {
		t.Errorf("expected fixed content/dc namespaces, got %+v", ns)
	}
}

func TestDocumentString(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	var missing *Document
	if missing.String() != "<nil Document>" {
		t.Errorf("unexpected nil dump: %q", missing.String())
	}

	export, err := ParseDocument(loadSampleDocument(t), log)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	dump := export.String()
	for _, want := range []string{"Blog title=", "Category[0] nicename=\"travel\"", "Post[0] id=\"11\"", "attachedFile=\"2015/06/fjord.jpg\""} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump is missing %q", want)
		}
	}
}
