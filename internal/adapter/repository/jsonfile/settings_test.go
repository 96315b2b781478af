package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

func newTestRepository(t *testing.T) *SettingsRepository {
	t.Helper()
	repo, err := NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	return repo
}

func TestNewSettingsRepository_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	repo, err := NewSettingsRepository(path)

	require.NoError(t, err)
	assert.Equal(t, path, repo.Path())
}

func TestNewSettingsRepository_DefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	repo, err := NewSettingsRepository("")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(repo.Path(), filepath.Join(appDirName, settingsFileName)))
}

func TestLoadAll_EmptyStoreReturnsDefaults(t *testing.T) {
	repo := newTestRepository(t)

	settings, err := repo.LoadAll()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveLoad_ActiveEdges(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveActiveEdges([]domain.Edge{domain.EdgeTop, domain.EdgeLeft})
	require.NoError(t, err)

	edges, err := repo.LoadActiveEdges()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeTop, domain.EdgeLeft}, edges)
}

func TestLoadActiveEdges_DefaultIsBottom(t *testing.T) {
	repo := newTestRepository(t)

	edges, err := repo.LoadActiveEdges()

	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, edges)
}

func TestSaveLoad_EdgeThickness(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveEdgeThickness(domain.EdgeBottom, 200)
	require.NoError(t, err)

	thickness, err := repo.LoadEdgeThickness(domain.EdgeBottom)
	require.NoError(t, err)
	assert.Equal(t, 200, thickness)

	// Unset edges keep the default.
	thickness, err = repo.LoadEdgeThickness(domain.EdgeTop)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultThickness, thickness)
}

func TestSaveLoad_Opacity(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveOpacity(0.5)
	require.NoError(t, err)

	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 0.5, opacity)
}

func TestSaveLoad_OpacityZeroIsNotAbsent(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveOpacity(0.0)
	require.NoError(t, err)

	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 0.0, opacity)
}

func TestLoadOpacity_Default(t *testing.T) {
	repo := newTestRepository(t)

	opacity, err := repo.LoadOpacity()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOpacity, opacity)
}

func TestSaveLoad_ColorScheme(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveColorScheme(domain.SchemeFire)
	require.NoError(t, err)

	scheme, err := repo.LoadColorScheme()
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeFire, scheme)
}

func TestLoadColorScheme_Default(t *testing.T) {
	repo := newTestRepository(t)

	scheme, err := repo.LoadColorScheme()

	require.NoError(t, err)
	assert.Equal(t, domain.SchemeSpectrum, scheme)
}

func TestSaveLoad_Density(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveDensity(128)
	require.NoError(t, err)

	density, err := repo.LoadDensity()
	require.NoError(t, err)
	assert.Equal(t, 128, density)
}

func TestLoadDensity_Default(t *testing.T) {
	repo := newTestRepository(t)

	density, err := repo.LoadDensity()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDensity, density)
}

func TestSaveLoad_Mode(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveMode(domain.ModeWave)
	require.NoError(t, err)

	mode, err := repo.LoadMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWave, mode)
}

func TestLoadMode_Default(t *testing.T) {
	repo := newTestRepository(t)

	mode, err := repo.LoadMode()

	require.NoError(t, err)
	assert.Equal(t, domain.ModeBars, mode)
}

func TestSaveLoad_AudioInput(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveAudioInput("/music/track.mp3")
	require.NoError(t, err)

	input, err := repo.LoadAudioInput()
	require.NoError(t, err)
	assert.Equal(t, "/music/track.mp3", input)
}

func TestLoadAudioInput_DefaultIsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	input, err := repo.LoadAudioInput()

	require.NoError(t, err)
	assert.Empty(t, input)
}

func TestSave_PreservesOtherKeys(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveOpacity(0.7))
	require.NoError(t, repo.SaveColorScheme(domain.SchemeOcean))
	require.NoError(t, repo.SaveDensity(64))

	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 0.7, opacity)

	scheme, err := repo.LoadColorScheme()
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeOcean, scheme)
}

func TestSave_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "settings.json")
	repo, err := NewSettingsRepository(path)
	require.NoError(t, err)

	require.NoError(t, repo.SaveDensity(32))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadAll_MergesSavedValues(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveActiveEdges([]domain.Edge{domain.EdgeTop, domain.EdgeBottom}))
	require.NoError(t, repo.SaveEdgeThickness(domain.EdgeTop, 80))
	require.NoError(t, repo.SaveOpacity(0.6))
	require.NoError(t, repo.SaveMode(domain.ModePulse))

	settings, err := repo.LoadAll()
	require.NoError(t, err)

	assert.Equal(t, []domain.Edge{domain.EdgeTop, domain.EdgeBottom}, settings.ActiveEdges)
	assert.Equal(t, 80, settings.EdgeThickness[domain.EdgeTop])
	assert.Equal(t, domain.DefaultThickness, settings.EdgeThickness[domain.EdgeBottom])
	assert.Equal(t, 0.6, settings.Opacity)
	assert.Equal(t, domain.ModePulse, settings.Mode)
	// Untouched keys keep their defaults.
	assert.Equal(t, domain.SchemeSpectrum, settings.ColorScheme)
	assert.Equal(t, domain.DefaultDensity, settings.Density)
}

func TestLoadAll_NormalizesHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  "active_edges": ["bottom", "bottom", "diagonal"],
  "edge_thickness": {"top": 2},
  "opacity": 3.5,
  "density": 0
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewSettingsRepository(path)
	require.NoError(t, err)

	settings, err := repo.LoadAll()
	require.NoError(t, err)

	assert.Equal(t, []domain.Edge{domain.EdgeBottom}, settings.ActiveEdges)
	assert.Equal(t, domain.DefaultThickness, settings.EdgeThickness[domain.EdgeTop])
	assert.Equal(t, domain.DefaultOpacity, settings.Opacity)
	assert.Equal(t, domain.DefaultDensity, settings.Density)
}

func TestLoad_CorruptFileReturnsRepositoryError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	repo, err := NewSettingsRepository(path)
	require.NoError(t, err)

	_, err = repo.LoadAll()
	require.Error(t, err)

	var repoErr *domain.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "load", repoErr.Op)
	assert.Equal(t, "jsonfile", repoErr.Type)
}

func TestClear(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveDensity(42))
	require.NoError(t, repo.Clear())

	_, err := os.Stat(repo.Path())
	assert.True(t, os.IsNotExist(err))

	density, err := repo.LoadDensity()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDensity, density)
}

func TestClear_MissingFileIsNotAnError(t *testing.T) {
	repo := newTestRepository(t)

	assert.NoError(t, repo.Clear())
}
