package coverletters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/shared/authz"
)

type fakeJobDir struct {
	owners map[string]string
}

func (d fakeJobDir) OwnerOf(ctx context.Context, jobID string) (string, error) {
	owner, ok := d.owners[jobID]
	if !ok {
		return "", authz.ErrNotFound
	}
	return owner, nil
}

func newService(repo Repo, owners map[string]string) *Service {
	return &Service{
		Repo: repo,
		Auth: &authz.Authorizer{Jobs: fakeJobDir{owners: owners}},
	}
}

func TestCreateAssignsContiguousVersions(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u1"})
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		letter, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "Draft", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, want, letter.Version)
		assert.True(t, letter.IsCurrent)
	}

	letters, err := svc.List(ctx, "u1", "job-1")
	require.NoError(t, err)
	require.Len(t, letters, 3)

	current := 0
	for _, l := range letters {
		if l.IsCurrent {
			current++
			assert.Equal(t, 3, l.Version)
		}
	}
	assert.Equal(t, 1, current, "exactly one current letter per job")
}

func TestVersionsAreIndependentPerJob(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u1", "job-2": "u1"})
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "A", Content: "x"})
	require.NoError(t, err)
	letter, err := svc.Create(ctx, "u1", "job-2", CreateInput{Title: "B", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, letter.Version)
}

func TestSetAsCurrentSwitchesExactlyOne(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u1"})
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "v1", Content: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", "job-1", CreateInput{Title: "v2", Content: "b"})
	require.NoError(t, err)

	promoted, err := svc.SetAsCurrent(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsCurrent)

	letters, err := svc.List(ctx, "u1", "job-1")
	require.NoError(t, err)
	for _, l := range letters {
		assert.Equal(t, l.ID == first.ID, l.IsCurrent, "letter %s", l.ID)
	}
}

func TestDeleteCurrentPromotesNewestRemaining(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u1"})
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "v1", Content: "a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "v2", Content: "b"})
	require.NoError(t, err)
	third, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "v3", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", third.ID))

	letters, err := svc.List(ctx, "u1", "job-1")
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, second.ID, letters[0].ID)
	assert.True(t, letters[0].IsCurrent, "newest remaining version becomes current")
}

func TestCreateFromTemplateCopiesContent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newService(repo, map[string]string{"job-1": "u1"})
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, "u1", TemplateInput{Title: "Standard", Content: "Dear team,"})
	require.NoError(t, err)

	letter, err := svc.Create(ctx, "u1", "job-1", CreateInput{TemplateID: &tpl.ID})
	require.NoError(t, err)
	assert.Equal(t, "Standard", letter.Title)
	assert.Equal(t, "Dear team,", letter.Content)
	require.NotNil(t, letter.TemplateID)
	assert.Equal(t, tpl.ID, *letter.TemplateID)
}

func TestTemplateDefaultIsExclusive(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{})
	ctx := context.Background()

	first, err := svc.CreateTemplate(ctx, "u1", TemplateInput{Title: "A", IsDefault: true})
	require.NoError(t, err)
	second, err := svc.CreateTemplate(ctx, "u1", TemplateInput{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultTemplate(ctx, "u1", second.ID))

	templates, err := svc.ListTemplates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	for _, tpl := range templates {
		assert.Equal(t, tpl.ID == second.ID, tpl.IsDefault, "template %s", tpl.Title)
	}
	_ = first
}

func TestTemplatesAreScopedPerUser(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{})
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, "u1", TemplateInput{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.GetTemplate(ctx, "u2", tpl.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccessDeniedForForeignJob(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u2"})
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "job-1", CreateInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, authz.ErrAccessDenied)
}

// unprovisionedRepo fails every table access the way Postgres does before
// the cover letter migration has run.
type unprovisionedRepo struct {
	Repo
}

func (unprovisionedRepo) ListByJob(ctx context.Context, jobID string) ([]CoverLetter, error) {
	return nil, ErrSchemaUnprovisioned
}

func (unprovisionedRepo) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	return nil, ErrSchemaUnprovisioned
}

func (unprovisionedRepo) CreateVersioned(ctx context.Context, letter CoverLetter) (CoverLetter, error) {
	return CoverLetter{}, ErrSchemaUnprovisioned
}

func TestUnprovisionedSchemaDegradesReadsFailsWrites(t *testing.T) {
	svc := newService(unprovisionedRepo{}, map[string]string{"job-1": "u1"})
	ctx := context.Background()

	letters, err := svc.List(ctx, "u1", "job-1")
	require.NoError(t, err, "reads degrade to empty results")
	assert.Empty(t, letters)

	templates, err := svc.ListTemplates(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, templates)

	_, err = svc.Create(ctx, "u1", "job-1", CreateInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrSchemaUnprovisioned, "writes surface the provisioning error")
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newService(NewMemoryRepo(), map[string]string{"job-1": "u1"})

	_, err := svc.Create(context.Background(), "u1", "job-1", CreateInput{Content: "body"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
