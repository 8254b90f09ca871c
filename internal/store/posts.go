package store

import (
	"fmt"
	"time"
)

func (s *Store) CreatePost(userName, content string) (*Post, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO community_posts (user_name, content, likes, created_at) VALUES (?, ?, 0, ?)`,
		userName, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify(TablePosts)
	return s.GetPost(id)
}

func (s *Store) GetPost(id int64) (*Post, error) {
	p := &Post{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, user_name, content, likes, created_at FROM community_posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserName, &p.Content, &p.Likes, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts() ([]Post, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, content, likes, created_at
		 FROM community_posts ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserName, &p.Content, &p.Likes, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) LikePost(id int64) error {
	_, err := s.db.Exec(`UPDATE community_posts SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("like post %d: %w", id, err)
	}
	s.notify(TablePosts)
	return nil
}

func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM community_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	s.notify(TablePosts)
	return nil
}
