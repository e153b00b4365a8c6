package entity

// ChapterLink is one chapter entry of the table of contents.
type ChapterLink struct {
	Name string
	URL  string // absolute, or the raw href when it could not be resolved
}

// VolumeEntry is a named, ordered group of chapter links.
type VolumeEntry struct {
	Title    string
	Chapters []ChapterLink
}

// TableOfContents maps volume title to its chapter links in document order.
type TableOfContents = OrderedMap[[]ChapterLink]

// ChapterContent is the cache-backed body of one chapter.
type ChapterContent struct {
	Name     string
	BodyHTML string
}

// ChapterMap maps volume title to resolved chapters. It is what the emitters consume.
type ChapterMap = OrderedMap[[]ChapterContent]

// FetchOutcome is the result of extracting one chapter from the network.
// On failure Content holds the escaped placeholder that gets cached in place
// of the chapter and Err holds the cause.
type FetchOutcome struct {
	Content string
	Err     error
}

// Failed reports whether the fetch produced a placeholder instead of content.
func (o FetchOutcome) Failed() bool {
	return o.Err != nil
}

// ProgressFunc reports how many of total items of the current pass are done.
type ProgressFunc func(current, total int)
