package service

import (
	"context"
	"encoding/json"
	"fmt"

	"campuscrafter.id/academy/internal/entity"
	commonDto "campuscrafter.id/academy/pkg/dto"
	"github.com/redis/go-redis/v9"
)

// GradeFeed fans out newly recorded grades to whoever is watching a student.
type GradeFeed interface {
	Publish(ctx context.Context, grade *entity.Grade) error
	// Subscribe delivers raw JSON payloads until ctx ends or the returned close func is called.
	Subscribe(ctx context.Context, studentID uint) (<-chan []byte, func() error, error)
}

func gradeChannel(studentID uint) string {
	return fmt.Sprintf("student_grades:%d", studentID)
}

type redisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) GradeFeed {
	return &redisFeed{client: client}
}

func (f *redisFeed) Publish(ctx context.Context, grade *entity.Grade) error {
	payload, err := json.Marshal(commonDto.NewGradeResponse(grade))
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, gradeChannel(grade.StudentID), payload).Err()
}

func (f *redisFeed) Subscribe(ctx context.Context, studentID uint) (<-chan []byte, func() error, error) {
	pubsub := f.client.Subscribe(ctx, gradeChannel(studentID))

	// Wait for confirmation that the subscription is live.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, pubsub.Close, nil
}
