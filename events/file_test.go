package events_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
)

const reportJSON = `{
  "team a": "Germany",
  "team b": "Japan",
  "events": [
    {
      "event name": "kickoff",
      "time": 0,
      "general game updates": {"active": "true", "before halftime": "true"},
      "team a updates": {"goals": "0"},
      "team b updates": {"goals": "0"},
      "description": "the game started"
    },
    {
      "event name": "goal",
      "time": 32,
      "general game updates": {"before halftime": "true"},
      "team a updates": {"goals": "1"},
      "team b updates": {},
      "description": "Germany scores"
    },
    {
      "event name": "halftime",
      "time": 45,
      "general game updates": {"before halftime": "false"},
      "team a updates": {},
      "team b updates": {},
      "description": "halftime break"
    }
  ]
}`

func writeTempReport(content string) string {
	dir, err := os.MkdirTemp("", "events")
	Expect(err).To(Succeed())

	path := filepath.Join(dir, "events.json")
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
	return path
}

var _ = Describe("ParseEventsFile", func() {
	It("parses team names and the channel name", func() {
		report, err := events.ParseEventsFile(writeTempReport(reportJSON))
		Expect(err).To(Succeed())

		Expect(report.TeamA).To(Equal("Germany"))
		Expect(report.TeamB).To(Equal("Japan"))
		Expect(report.Channel()).To(Equal("Germany_Japan"))
	})

	It("parses events in file order", func() {
		report, err := events.ParseEventsFile(writeTempReport(reportJSON))
		Expect(err).To(Succeed())

		Expect(report.Events).To(HaveLen(3))
		Expect(report.Events[0].Name).To(Equal("kickoff"))
		Expect(report.Events[1].Name).To(Equal("goal"))
		Expect(report.Events[2].Name).To(Equal("halftime"))
		Expect(report.Events[1].Time).To(Equal(32))
		Expect(report.Events[1].Description).To(Equal("Germany scores"))
	})

	It("keeps update keys in document order", func() {
		report, err := events.ParseEventsFile(writeTempReport(reportJSON))
		Expect(err).To(Succeed())

		Expect(report.Events[0].GameUpdates).To(Equal(events.Updates{
			{Key: "active", Value: "true"},
			{Key: "before halftime", Value: "true"},
		}))
	})

	It("stamps each event with both team names", func() {
		report, err := events.ParseEventsFile(writeTempReport(reportJSON))
		Expect(err).To(Succeed())

		for _, event := range report.Events {
			Expect(event.TeamA).To(Equal("Germany"))
			Expect(event.TeamB).To(Equal("Japan"))
		}
	})

	It("fails for a missing file", func() {
		_, err := events.ParseEventsFile(filepath.Join(os.TempDir(), "definitely-missing.json"))
		Expect(err).To(HaveOccurred())
	})

	It("fails for non-JSON content", func() {
		_, err := events.ParseEventsFile(writeTempReport("this is not json"))
		Expect(err).To(MatchError(events.ErrNotAReport))
	})

	It("fails when team names are missing", func() {
		_, err := events.ParseEventsFile(writeTempReport(`{"events": []}`))
		Expect(err).To(MatchError(events.ErrMissingTeams))
	})
})
