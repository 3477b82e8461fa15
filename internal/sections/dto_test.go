package sections

import (
	"encoding/json"
	"strings"
	"testing"
)

// Entity keys serialize as "id"; only foreign keys carry entity-named keys.
func TestResponsesUseIDAsEntityKey(t *testing.T) {
	view := SectionView{
		Section:     Section{ID: "s1", ResumeID: "r1", SectionType: TypeExperience},
		Experiences: []WorkExperience{{ID: "e1", SectionID: "s1", JobTitle: "Engineer"}},
		Educations:  []Education{{ID: "d1", SectionID: "s1", Institution: "State University"}},
	}
	raw, err := json.Marshal(toSectionResponse(view))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	for _, want := range []string{`"id":"s1"`, `"id":"e1"`, `"id":"d1"`, `"sectionId":"s1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("response %s missing %s", body, want)
		}
	}
	for _, stale := range []string{"experienceId", "educationId"} {
		if strings.Contains(body, stale) {
			t.Fatalf("response %s still uses %s", body, stale)
		}
	}
}
