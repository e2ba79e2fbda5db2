package model

// ReleaseDraft holds the parameters for creating a release. Releases are
// always created as drafts with prerelease disabled, so maintainers review
// the uploaded installers before publishing.
type ReleaseDraft struct {
	TagName         string
	Name            string
	Body            string
	TargetCommitish string
}

// Release represents a created release on the hosting side. UploadURL is
// returned by the create call and consumed by the asset uploads of the
// same run.
type Release struct {
	ID        int64
	TagName   string
	HTMLURL   string
	UploadURL string
	Draft     bool
}

// ReleaseAsset is an attached release asset confirmation.
type ReleaseAsset struct {
	ID          int64
	Name        string
	ContentType string
	Size        int64
	DownloadURL string
}
