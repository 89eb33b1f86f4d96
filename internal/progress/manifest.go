package progress

import "github.com/ghostarr/ghostarr/internal/models"

// DefaultManifest returns the full step list the backend executes when every
// content source is enabled. The registry seeds new records with it so the
// UI can render a step list immediately; the authoritative manifest arrives
// with the generation_started event and replaces this guess.
func DefaultManifest() []ManifestEntry {
	return []ManifestEntry{
		{Step: "fetch_tautulli", Message: "Fetching media from Tautulli"},
		{Step: "enrich_tmdb", Message: "Enriching with TMDB metadata"},
		{Step: "fetch_romm", Message: "Fetching games from ROMM"},
		{Step: "fetch_komga", Message: "Fetching books from Komga"},
		{Step: "fetch_audiobookshelf", Message: "Fetching audiobooks"},
		{Step: "fetch_tunarr", Message: "Fetching TV programming"},
		{Step: "fetch_statistics", Message: "Fetching statistics"},
		{Step: "render_template", Message: "Rendering template"},
		{Step: "publish_ghost", Message: "Publishing to Ghost"},
	}
}

// seedSteps builds a pending step list from a manifest.
func seedSteps(manifest []ManifestEntry) []models.Step {
	steps := make([]models.Step, len(manifest))
	for i, entry := range manifest {
		steps[i] = models.Step{
			Step:    entry.Step,
			Status:  models.StepPending,
			Message: entry.Message,
		}
	}
	return steps
}
