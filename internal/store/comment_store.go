// Package store holds the working set of comments for an analysis pass.
package store

import (
	"sync"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

// CommentStore is an in-memory comment repository. IDs are assigned
// monotonically starting at 1 and never reused within the lifetime of a
// store instance; List returns comments in insertion order. ID assignment is
// a read-modify-write, so all operations take the mutex.
type CommentStore struct {
	mu       sync.Mutex
	comments map[int64]*models.Comment
	order    []int64
	nextID   int64
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

// Add inserts a comment, assigning a fresh id when none is set.
func (s *CommentStore) Add(comment *models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID == 0 {
		comment.ID = s.nextID
		s.nextID++
	} else if comment.ID >= s.nextID {
		s.nextID = comment.ID + 1
	}

	if _, exists := s.comments[comment.ID]; !exists {
		s.order = append(s.order, comment.ID)
	}
	s.comments[comment.ID] = comment
}

// Get returns the comment with the given id.
func (s *CommentStore) Get(id int64) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, apperrors.CommentNotFound(id)
	}
	return comment, nil
}

// Update replaces an existing comment. Unknown ids are a reported error,
// never a silent insert.
func (s *CommentStore) Update(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[comment.ID]; !ok {
		return apperrors.CommentNotFound(comment.ID)
	}
	s.comments[comment.ID] = comment
	return nil
}

// List returns all comments in insertion order.
func (s *CommentStore) List() []*models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Comment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.comments[id])
	}
	return out
}

// Delete removes a comment by id.
func (s *CommentStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return apperrors.CommentNotFound(id)
	}
	delete(s.comments, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports how many comments the store holds.
func (s *CommentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}
