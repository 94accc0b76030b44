package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorneva/cloudstore/internal/model"
	"github.com/okorneva/cloudstore/internal/repository/memory"
	"github.com/okorneva/cloudstore/internal/testutil"
)

// TestScenario_FileLifecycle runs the services against the in-memory stores,
// end to end: login, upload, duplicate upload, list, delete, fetch-after-delete.
func TestScenario_FileLifecycle(t *testing.T) {
	ctx := context.Background()
	userStore := memory.NewUserStore()
	fileStore := memory.NewFileStore()

	_, err := userStore.Save(ctx, model.User{Login: "alice", PasswordHash: "pw1"})
	require.NoError(t, err)

	sessions := NewSession(userStore, testutil.MakeNoopLogger())
	files := NewFiles(fileStore, sessions, nil, testutil.MakeNoopLogger())

	token, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = files.Upload(ctx, token, "h1", bytes.NewReader([]byte{1, 2, 3}), 3, "a.txt")
	require.NoError(t, err)

	err = files.Upload(ctx, token, "h2", bytes.NewReader([]byte{4}), 1, "a.txt")
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindAlreadyExists, apiErr.Kind)

	infos, err := files.List(ctx, token, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.FileInfo{{Name: "a.txt", Size: 3}}, infos)

	file, err := files.Fetch(ctx, token, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "h1", file.Hash)
	assert.Equal(t, []byte{1, 2, 3}, file.Content)

	require.NoError(t, files.Delete(ctx, token, "a.txt"))

	_, err = files.Fetch(ctx, token, "a.txt")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindNotFound, apiErr.Kind)

	infos, err = files.List(ctx, token, 10)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

// TestScenario_RenameMovesTheName checks rename frees the old name and
// occupies the new one.
func TestScenario_RenameMovesTheName(t *testing.T) {
	ctx := context.Background()
	userStore := memory.NewUserStore()
	fileStore := memory.NewFileStore()

	_, err := userStore.Save(ctx, model.User{Login: "alice", PasswordHash: "pw1"})
	require.NoError(t, err)

	sessions := NewSession(userStore, testutil.MakeNoopLogger())
	files := NewFiles(fileStore, sessions, nil, testutil.MakeNoopLogger())

	token, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, files.Upload(ctx, token, "h1", bytes.NewReader([]byte{1}), 1, "old.txt"))
	require.NoError(t, files.Rename(ctx, token, "old.txt", "new.txt"))

	var apiErr *model.APIError
	_, err = files.Fetch(ctx, token, "old.txt")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindNotFound, apiErr.Kind)

	file, err := files.Fetch(ctx, token, "new.txt")
	require.NoError(t, err)
	assert.Equal(t, "h1", file.Hash)

	// the old name is free for a fresh upload
	require.NoError(t, files.Upload(ctx, token, "h2", bytes.NewReader([]byte{2}), 1, "old.txt"))
}

// TestScenario_NamespacesAreIndependent checks that two users can hold the
// same filename and never see each other's files.
func TestScenario_NamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	userStore := memory.NewUserStore()
	fileStore := memory.NewFileStore()

	_, err := userStore.Save(ctx, model.User{Login: "alice", PasswordHash: "pw1"})
	require.NoError(t, err)
	_, err = userStore.Save(ctx, model.User{Login: "bob", PasswordHash: "pw2"})
	require.NoError(t, err)

	sessions := NewSession(userStore, testutil.MakeNoopLogger())
	files := NewFiles(fileStore, sessions, nil, testutil.MakeNoopLogger())

	aliceToken, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	bobToken, err := sessions.Login(ctx, "bob", "pw2")
	require.NoError(t, err)
	assert.NotEqual(t, aliceToken, bobToken)

	require.NoError(t, files.Upload(ctx, aliceToken, "ha", bytes.NewReader([]byte{1, 2}), 2, "shared.txt"))
	require.NoError(t, files.Upload(ctx, bobToken, "hb", bytes.NewReader([]byte{3}), 1, "shared.txt"))

	aliceFile, err := files.Fetch(ctx, aliceToken, "shared.txt")
	require.NoError(t, err)
	assert.Equal(t, "ha", aliceFile.Hash)

	bobFile, err := files.Fetch(ctx, bobToken, "shared.txt")
	require.NoError(t, err)
	assert.Equal(t, "hb", bobFile.Hash)

	require.NoError(t, files.Delete(ctx, aliceToken, "shared.txt"))

	bobInfos, err := files.List(ctx, bobToken, 10)
	require.NoError(t, err)
	assert.Len(t, bobInfos, 1)
}

// TestScenario_LogoutInvalidatesTheToken checks a logged-out token no longer
// authenticates and a fresh login issues a different one.
func TestScenario_LogoutInvalidatesTheToken(t *testing.T) {
	ctx := context.Background()
	userStore := memory.NewUserStore()
	fileStore := memory.NewFileStore()

	_, err := userStore.Save(ctx, model.User{Login: "alice", PasswordHash: "pw1"})
	require.NoError(t, err)

	sessions := NewSession(userStore, testutil.MakeNoopLogger())
	files := NewFiles(fileStore, sessions, nil, testutil.MakeNoopLogger())

	first, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, sessions.Logout(ctx, first))

	var apiErr *model.APIError
	_, err = files.List(ctx, first, 10)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindUnauthenticated, apiErr.Kind)

	second, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

// TestScenario_RelogReplacesTheSession checks a second login displaces the
// first session's token.
func TestScenario_RelogReplacesTheSession(t *testing.T) {
	ctx := context.Background()
	userStore := memory.NewUserStore()

	_, err := userStore.Save(ctx, model.User{Login: "alice", PasswordHash: "pw1"})
	require.NoError(t, err)

	sessions := NewSession(userStore, testutil.MakeNoopLogger())

	first, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	second, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = sessions.Resolve(ctx, first)
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindUnauthenticated, apiErr.Kind)

	user, err := sessions.Resolve(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
}
