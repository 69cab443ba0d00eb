package chart

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"

	"github.com/reallygood83/mathemotion/internal"
)

// hangulProbe must have a glyph in any font used for labels
const hangulProbe = '가'

const koreanTypeface font.Typeface = "Korean"

// fontCandidate is one family in the search order. A file matches when its
// lower-cased base name contains a pattern and none of the excludes.
type fontCandidate struct {
	Family   string
	Patterns []string
	Excludes []string
}

var fontCandidates = []fontCandidate{
	{Family: "NanumGothic", Patterns: []string{"nanumgothic"}, Excludes: []string{"coding"}},
	{Family: "Malgun Gothic", Patterns: []string{"malgun"}},
	{Family: "AppleGothic", Patterns: []string{"applegothic", "applesdgothicneo"}},
	{Family: "Noto Sans CJK KR", Patterns: []string{"notosanscjk"}},
	{Family: "Noto Sans KR", Patterns: []string{"notosanskr"}},
	{Family: "NanumMyeongjo", Patterns: []string{"nanummyeongjo"}},
	{Family: "NanumGothicCoding", Patterns: []string{"nanumgothiccoding"}},
}

// FontChoice is the outcome of a font search
type FontChoice struct {
	Family string
	Path   string
	face   *opentype.Font
}

// FontLocator finds a Hangul-capable font file on disk
type FontLocator struct {
	ExplicitPath string
	Dirs         []string
}

// NewFontLocator searches dirs before the platform font directories
func NewFontLocator(explicitPath string, dirs []string) *FontLocator {
	return &FontLocator{
		ExplicitPath: explicitPath,
		Dirs:         append(append([]string(nil), dirs...), systemFontDirs()...),
	}
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts")}
	}
}

// Locate returns the first usable font. An explicit path wins when it parses
// and covers Hangul; otherwise families are tried in priority order.
func (l *FontLocator) Locate() (*FontChoice, bool) {
	if l.ExplicitPath != "" {
		if face, ok := loadHangulFace(l.ExplicitPath); ok {
			return &FontChoice{Family: familyFromPath(l.ExplicitPath), Path: l.ExplicitPath, face: face}, true
		}
	}

	files := l.fontFiles()
	for _, candidate := range fontCandidates {
		for _, path := range files {
			if !candidate.matches(path) {
				continue
			}
			if face, ok := loadHangulFace(path); ok {
				return &FontChoice{Family: candidate.Family, Path: path, face: face}, true
			}
		}
	}
	return nil, false
}

func (c fontCandidate) matches(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	base = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(base)
	for _, ex := range c.Excludes {
		if strings.Contains(base, ex) {
			return false
		}
	}
	for _, p := range c.Patterns {
		if strings.Contains(base, p) {
			return true
		}
	}
	return false
}

func (l *FontLocator) fontFiles() []string {
	var files []string
	seen := make(map[string]bool)
	for _, dir := range l.Dirs {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf", ".ttc":
				if !seen[path] {
					seen[path] = true
					files = append(files, path)
				}
			}
			return nil
		})
	}
	return files
}

// loadHangulFace parses a font file (or the first Hangul-capable member of a
// collection) and rejects fonts without Hangul glyphs.
func loadHangulFace(path string) (*opentype.Font, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	if strings.EqualFold(filepath.Ext(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, false
		}
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err == nil && hasHangul(f) {
				return f, true
			}
		}
		return nil, false
	}

	f, err := opentype.Parse(data)
	if err != nil || !hasHangul(f) {
		return nil, false
	}
	return f, true
}

func hasHangul(f *sfnt.Font) bool {
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, hangulProbe)
	return err == nil && idx != 0
}

func familyFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// fontInstall is the located font (or fallback warning) for one locator setup
type fontInstall struct {
	choice  *FontChoice
	warning string
}

var (
	fontMu       sync.Mutex
	fontInstalls = make(map[string]fontInstall)
)

// key identifies a locator by what it searches
func (l *FontLocator) key() string {
	return l.ExplicitPath + "\x00" + strings.Join(l.Dirs, "\x00")
}

// installFont searches once per locator setup and registers a found font as
// the plot default. The default is process-wide, so the most recently located
// font is the one every plot draws with. It returns the chosen font or a
// warning when only the built-in fonts remain.
func installFont(locator *FontLocator, logger *internal.Logger) (*FontChoice, string) {
	fontMu.Lock()
	defer fontMu.Unlock()

	key := locator.key()
	if done, ok := fontInstalls[key]; ok {
		if done.choice != nil {
			setDefaultTypeface(done.choice)
		}
		return done.choice, done.warning
	}

	var done fontInstall
	if choice, ok := locator.Locate(); ok {
		font.DefaultCache.Add(font.Collection{
			{Font: font.Font{Typeface: choice.typeface()}, Face: choice.face},
		})
		setDefaultTypeface(choice)
		done.choice = choice
		logger.Info("[Chart] Korean font applied: %s (%s)", choice.Family, choice.Path)
	} else {
		done.warning = "no Korean font found; labels are drawn with the built-in Liberation fonts and Hangul may not display"
		logger.Warn("[Chart] %s", done.warning)
	}
	fontInstalls[key] = done
	return done.choice, done.warning
}

func (c *FontChoice) typeface() font.Typeface {
	return koreanTypeface + font.Typeface(" "+c.Path)
}

func setDefaultTypeface(c *FontChoice) {
	plot.DefaultFont = font.Font{Typeface: c.typeface()}
	plotter.DefaultFont = font.Font{Typeface: c.typeface()}
}
