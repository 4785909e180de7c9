package blogdb

import "context"

// GetPostByID は指定されたIDの記事を1件取得する。
// 存在しない場合はsql.ErrNoRowsを返す。
func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, title, category, content, postdate, hidden FROM posts WHERE id = ?`, id)

	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Content, &p.PostDate, &p.Hidden)
	return p, err
}

// ListPosts は全記事を取得する。
func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, category, content, postdate, hidden FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Content, &p.PostDate, &p.Hidden); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePostParams は記事作成クエリのパラメータ。
// IDと作成日時はストアが採番・設定するため含まない。
type CreatePostParams struct {
	// Title は記事のタイトル。
	Title string
	// Category は記事のカテゴリ。
	Category string
	// Content は記事の本文。
	Content string
	// Hidden は非公開フラグ。
	Hidden bool
}

// CreatePost は記事を1件挿入し、採番されたIDを返す。
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (int64, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO posts (title, category, content, hidden) VALUES (?, ?, ?, ?) RETURNING id`,
		arg.Title, arg.Category, arg.Content, arg.Hidden)

	var id int64
	err := row.Scan(&id)
	return id, err
}
