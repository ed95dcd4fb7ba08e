package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		// no docker daemon; database tests skip themselves
		os.Exit(m.Run())
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=docqa",
			"POSTGRES_PASSWORD=docqa",
			"POSTGRES_DB=docqa",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("postgres://docqa:docqa@%s/docqa?sslmode=disable", resource.GetHostPort("5432/tcp"))

	err = pool.Retry(func() error {
		p, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			return err
		}
		if err := p.Ping(context.Background()); err != nil {
			p.Close()
			return err
		}
		testPool = p
		return nil
	})
	if err == nil {
		err = RunMigrations(dsn)
	}
	if err != nil {
		_ = pool.Purge(resource)
		fmt.Fprintf(os.Stderr, "prepare postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("docker is not available")
	}
	return testPool
}

func createTestUser(t *testing.T, db *pgxpool.Pool) *entity.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", uuid.NewString())
	user, err := NewUserPostgres(db).CreateUser(context.Background(), "Tester", email, "hash")
	require.NoError(t, err)
	return user
}

func TestUserPostgres(t *testing.T) {
	db := requireDB(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	user := createTestUser(t, db)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Tester", user.Name)

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = repo.CreateUser(ctx, "Other", user.Email, "hash2")
	assert.ErrorIs(t, err, entity.ErrEmailTaken)

	_, err = repo.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)

	_, err = repo.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestChatPostgres(t *testing.T) {
	db := requireDB(t)
	repo := NewChatPostgres(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)

	greeting := &entity.Message{Role: entity.RoleAssistant, Content: entity.ChatGreeting}
	chat, err := repo.CreateChat(ctx, owner.ID, entity.DefaultChatTitle, greeting)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultChatTitle, chat.Title)
	require.Len(t, chat.Messages, 1)

	t.Run("append renames and keeps order", func(t *testing.T) {
		rename := func(title string) string {
			if title == entity.DefaultChatTitle {
				return "What is the total?"
			}
			return title
		}
		msg := &entity.Message{Role: entity.RoleUser, Content: "What is the total?"}
		require.NoError(t, repo.AppendMessage(ctx, owner.ID, chat.ID, msg, rename))

		reply := &entity.Message{Role: entity.RoleAssistant, Content: "99 EUR"}
		require.NoError(t, repo.AppendMessage(ctx, owner.ID, chat.ID, reply, rename))

		got, err := repo.GetChat(ctx, owner.ID, chat.ID)
		require.NoError(t, err)
		assert.Equal(t, "What is the total?", got.Title)
		require.Len(t, got.Messages, 3)
		assert.Equal(t, entity.RoleAssistant, got.Messages[0].Role)
		assert.Equal(t, "What is the total?", got.Messages[1].Content)
		assert.Equal(t, "99 EUR", got.Messages[2].Content)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})

	t.Run("list is newest updated first", func(t *testing.T) {
		second, err := repo.CreateChat(ctx, owner.ID, entity.DefaultChatTitle, nil)
		require.NoError(t, err)

		chats, err := repo.ListChats(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, chats, 2)
		assert.Equal(t, second.ID, chats[0].ID)
		assert.Equal(t, chat.ID, chats[1].ID)
	})

	t.Run("other owners cannot see the chat", func(t *testing.T) {
		_, err := repo.GetChat(ctx, stranger.ID, chat.ID)
		assert.ErrorIs(t, err, entity.ErrChatNotFound)

		err = repo.AppendMessage(ctx, stranger.ID, chat.ID, &entity.Message{Role: entity.RoleUser, Content: "x"}, nil)
		assert.ErrorIs(t, err, entity.ErrChatNotFound)

		assert.ErrorIs(t, repo.DeleteChat(ctx, stranger.ID, chat.ID), entity.ErrChatNotFound)

		chats, err := repo.ListChats(ctx, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteChat(ctx, owner.ID, chat.ID))
		_, err := repo.GetChat(ctx, owner.ID, chat.ID)
		assert.ErrorIs(t, err, entity.ErrChatNotFound)
		assert.ErrorIs(t, repo.DeleteChat(ctx, owner.ID, chat.ID), entity.ErrChatNotFound)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		_, err := repo.GetChat(ctx, owner.ID, "abc")
		assert.ErrorIs(t, err, entity.ErrChatNotFound)
	})
}

func TestDocumentPostgres(t *testing.T) {
	db := requireDB(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	session := uuid.NewString()

	first, err := repo.CreateDocument(ctx, &entity.Document{
		OwnerID:       owner.ID,
		SessionID:     session,
		Name:          "a.txt",
		MediaType:     "text/plain",
		Size:          5,
		StoragePath:   "uploads/1-a.txt",
		ExtractedText: "alpha",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := repo.CreateDocument(ctx, &entity.Document{
		OwnerID:     owner.ID,
		SessionID:   session,
		Name:        "b.png",
		MediaType:   "image/png",
		Size:        10,
		StoragePath: "uploads/2-b.png",
	})
	require.NoError(t, err)

	_, err = repo.CreateDocument(ctx, &entity.Document{
		OwnerID:   owner.ID,
		SessionID: "other-session",
		Name:      "c.txt",
	})
	require.NoError(t, err)

	docs, err := repo.ListSessionDocuments(ctx, owner.ID, session, false)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.ID, docs[1].ID)
	assert.Empty(t, docs[1].ExtractedText)

	withText, err := repo.ListSessionDocuments(ctx, owner.ID, session, true)
	require.NoError(t, err)
	require.Len(t, withText, 2)
	assert.Equal(t, "alpha", strings.TrimSpace(withText[1].ExtractedText))
	assert.False(t, withText[0].HasText())

	foreign, err := repo.ListSessionDocuments(ctx, stranger.ID, session, true)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}
