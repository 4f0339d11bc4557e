package convert

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"wpparser/state"
	"wpparser/wxr"
)

// All record columns stay TEXT and nullable, values are stored verbatim the
// way they appear in the export. Posts keep document order through their
// rowid, comments and postmeta reference the owning post row.
const recordSchema = `
CREATE TABLE blog (
	title TEXT,
	tagline TEXT,
	language TEXT,
	site_url TEXT,
	blog_url TEXT,
	wxr_version TEXT
);

CREATE TABLE authors (
	id INTEGER PRIMARY KEY,
	login TEXT,
	email TEXT,
	display_name TEXT,
	first_name TEXT,
	last_name TEXT
);

CREATE TABLE categories (
	id INTEGER PRIMARY KEY,
	term_id TEXT,
	nicename TEXT,
	name TEXT,
	parent TEXT
);

CREATE TABLE tags (
	id INTEGER PRIMARY KEY,
	term_id TEXT,
	slug TEXT,
	name TEXT
);

CREATE TABLE posts (
	id INTEGER PRIMARY KEY,
	post_id TEXT,
	title TEXT,
	link TEXT,
	pub_date TEXT,
	creator TEXT,
	guid TEXT,
	description TEXT,
	content TEXT,
	excerpt TEXT,
	post_date TEXT,
	post_date_gmt TEXT,
	post_modified TEXT,
	post_modified_gmt TEXT,
	post_name TEXT,
	status TEXT,
	post_parent TEXT,
	menu_order TEXT,
	post_type TEXT,
	post_password TEXT,
	is_sticky TEXT,
	comment_status TEXT,
	ping_status TEXT,
	attachment_url TEXT
);

CREATE TABLE post_categories (
	post_ref INTEGER NOT NULL REFERENCES posts(id),
	name TEXT NOT NULL
);

CREATE TABLE post_tags (
	post_ref INTEGER NOT NULL REFERENCES posts(id),
	name TEXT NOT NULL
);

CREATE TABLE postmeta (
	post_ref INTEGER NOT NULL REFERENCES posts(id),
	key TEXT NOT NULL,
	value TEXT
);

CREATE TABLE comments (
	post_ref INTEGER NOT NULL REFERENCES posts(id),
	comment_id TEXT NOT NULL,
	author TEXT,
	author_email TEXT,
	author_url TEXT,
	author_ip TEXT,
	date TEXT,
	date_gmt TEXT,
	content TEXT,
	approved TEXT,
	type TEXT,
	user_id TEXT,
	parent TEXT
);
`

// writeSQLite stores the record tree as a relational SQLite database.
func writeSQLite(ctx context.Context, e *Export, outputPath string, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	conn, err := sqlite.OpenConn(outputPath, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("unable to create database: %w", err)
	}
	defer multierr.AppendInvoke(&rerr, multierr.Close(conn))

	// Page size only matters before the first page is written and journal
	// mode cannot change inside a transaction, so both go before the schema.
	discard := &sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error { return nil }}
	if err := sqlitex.Execute(conn, fmt.Sprintf("PRAGMA page_size = %d;", env.Cfg.SQLite.PageSize), discard); err != nil {
		return fmt.Errorf("unable to set page size: %w", err)
	}
	if err := sqlitex.Execute(conn, fmt.Sprintf("PRAGMA journal_mode = %s;", env.Cfg.SQLite.JournalMode), discard); err != nil {
		return fmt.Errorf("unable to set journal mode: %w", err)
	}

	if err := sqlitex.ExecuteScript(conn, recordSchema, nil); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}

	if err := insertRecords(conn, e.Record); err != nil {
		return fmt.Errorf("unable to store records: %w", err)
	}

	log.Debug("Generated SQLite database", zap.String("file", outputPath), zap.Int("posts", len(e.Record.Posts)))
	return nil
}

func insertRecords(conn *sqlite.Conn, rec *wxr.Document) (err error) {
	defer sqlitex.Save(conn)(&err)

	if err = sqlitex.Execute(conn,
		`INSERT INTO blog (title, tagline, language, site_url, blog_url, wxr_version) VALUES (?, ?, ?, ?, ?, ?);`,
		&sqlitex.ExecOptions{Args: []any{
			nullable(rec.Blog.Title), nullable(rec.Blog.Tagline), nullable(rec.Blog.Language),
			nullable(rec.Blog.SiteURL), nullable(rec.Blog.BlogURL), nullable(rec.Blog.WXRVersion),
		}}); err != nil {
		return err
	}

	for _, a := range rec.Authors {
		if err = sqlitex.Execute(conn,
			`INSERT INTO authors (login, email, display_name, first_name, last_name) VALUES (?, ?, ?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{
				nullable(a.Login), nullable(a.Email), nullable(a.DisplayName), nullable(a.FirstName), nullable(a.LastName),
			}}); err != nil {
			return err
		}
	}

	if err = insertCategories(conn, rec.Categories); err != nil {
		return err
	}

	for _, t := range rec.Tags {
		if err = sqlitex.Execute(conn,
			`INSERT INTO tags (term_id, slug, name) VALUES (?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{nullable(t.TermID), nullable(t.Slug), nullable(t.Name)}}); err != nil {
			return err
		}
	}

	for i := range rec.Posts {
		if err = insertPost(conn, &rec.Posts[i]); err != nil {
			return err
		}
	}
	return nil
}

// insertCategories stores the category forest depth first, keeping the
// parent relation as a nicename reference exactly as the record tree has it.
func insertCategories(conn *sqlite.Conn, categories []*wxr.Category) error {
	for _, c := range categories {
		if err := sqlitex.Execute(conn,
			`INSERT INTO categories (term_id, nicename, name, parent) VALUES (?, ?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{nullable(c.TermID), nullable(c.Nicename), nullable(c.Name), nullable(c.Parent)}}); err != nil {
			return err
		}
		if err := insertCategories(conn, c.Children); err != nil {
			return err
		}
	}
	return nil
}

func insertPost(conn *sqlite.Conn, p *wxr.Post) error {
	if err := sqlitex.Execute(conn,
		`INSERT INTO posts (post_id, title, link, pub_date, creator, guid, description, content, excerpt,
			post_date, post_date_gmt, post_modified, post_modified_gmt, post_name, status, post_parent,
			menu_order, post_type, post_password, is_sticky, comment_status, ping_status, attachment_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		&sqlitex.ExecOptions{Args: []any{
			nullable(p.PostID), nullable(p.Title), nullable(p.Link), nullable(p.PubDate), nullable(p.Creator),
			nullable(p.GUID), nullable(p.Description), nullable(p.Content), nullable(p.Excerpt),
			nullable(p.PostDate), nullable(p.PostDateGMT), nullable(p.PostModified), nullable(p.PostModifiedGMT),
			nullable(p.PostName), nullable(p.Status), nullable(p.PostParent), nullable(p.MenuOrder),
			nullable(p.PostType), nullable(p.PostPassword), nullable(p.IsSticky), nullable(p.CommentStatus),
			nullable(p.PingStatus), nullable(p.AttachmentURL),
		}}); err != nil {
		return err
	}
	ref := conn.LastInsertRowID()

	for _, name := range p.Categories {
		if err := sqlitex.Execute(conn,
			`INSERT INTO post_categories (post_ref, name) VALUES (?, ?);`,
			&sqlitex.ExecOptions{Args: []any{ref, name}}); err != nil {
			return err
		}
	}

	for _, name := range p.Tags {
		if err := sqlitex.Execute(conn,
			`INSERT INTO post_tags (post_ref, name) VALUES (?, ?);`,
			&sqlitex.ExecOptions{Args: []any{ref, name}}); err != nil {
			return err
		}
	}

	for _, m := range p.Meta {
		if err := sqlitex.Execute(conn,
			`INSERT INTO postmeta (post_ref, key, value) VALUES (?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{ref, m.Key, nullable(m.Value)}}); err != nil {
			return err
		}
	}

	for _, c := range p.Comments {
		if err := sqlitex.Execute(conn,
			`INSERT INTO comments (post_ref, comment_id, author, author_email, author_url, author_ip,
				date, date_gmt, content, approved, type, user_id, parent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{
				ref, c.ID, nullable(c.Author), nullable(c.AuthorEmail), nullable(c.AuthorURL), nullable(c.AuthorIP),
				nullable(c.Date), nullable(c.DateGMT), nullable(c.Content), nullable(c.Approved),
				nullable(c.Type), nullable(c.UserID), nullable(c.Parent),
			}}); err != nil {
			return err
		}
	}

	return nil
}

// nullable converts optional record fields to their SQL representation.
func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
