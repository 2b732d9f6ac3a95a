package content

import "github.com/terra-clan/portfolio/internal/models"

// FallbackIcon is used for icon names the frontend has no renderer for
const FallbackIcon = "Code"

// iconSlugs maps the symbolic icon names stored on skills to lucide slugs
var iconSlugs = map[string]string{
	"Code":      "code",
	"Database":  "database",
	"FileCode":  "file-code",
	"Figma":     "figma",
	"GitBranch": "git-branch",
	"Globe":     "globe",
	"ImageIcon": "image",
	"Layout":    "layout",
	"Palette":   "palette",
	"PenTool":   "pen-tool",
	"Server":    "server",
	"Terminal":  "terminal",
}

// ResolveIcon looks up the presentation handle for an icon name
func ResolveIcon(name string) models.Icon {
	if slug, ok := iconSlugs[name]; ok {
		return models.Icon{Name: name, Slug: slug}
	}
	return models.Icon{Name: FallbackIcon, Slug: iconSlugs[FallbackIcon], Fallback: true}
}

// SkillViews resolves the icon of every skill
func SkillViews(skills []models.Skill) []models.SkillView {
	views := make([]models.SkillView, len(skills))
	for i, sk := range skills {
		views[i] = models.SkillView{Skill: sk, Icon: ResolveIcon(sk.IconRef)}
	}
	return views
}
