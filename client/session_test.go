package client_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/alon-amarilio/SPL25-Assignment3/client"
	"github.com/alon-amarilio/SPL25-Assignment3/protocol"
)

var _ = Describe("Session", func() {
	var (
		conn    *fakeConn
		out     *syncBuffer
		session *client.Session
	)

	BeforeEach(func() {
		conn = newFakeConn()
		out = &syncBuffer{}
		session = connectedSession(conn, out)
	})

	Describe("login", func() {
		It("sends CONNECT with the fixed handshake headers", func() {
			sent := conn.Sent()
			Expect(sent).NotTo(BeEmpty())

			connect := sent[0]
			Expect(connect.Command).To(Equal(protocol.CONNECT))
			Expect(connect.Headers).To(Equal([]protocol.Header{
				protocol.H("accept-version", "1.2"),
				protocol.H("host", "stomp.cs.bgu.ac.il"),
				protocol.H("login", "meni"),
				protocol.H("passcode", "films"),
			}))
		})

		It("reports success on CONNECTED", func() {
			Expect(out.String()).To(ContainSubstring("Login successful"))
		})

		It("rejects a second login", func() {
			before := conn.sentCount()

			session.HandleCommand("login 127.0.0.1:7672 other pass")

			Expect(out.String()).To(ContainSubstring("The client is already logged in"))
			Expect(conn.sentCount()).To(Equal(before))
		})

		It("rejects commands before CONNECTED arrives", func() {
			fresh := newFakeConn()
			freshOut := &syncBuffer{}
			pending := client.NewSession(fresh, "meni", "stomp.cs.bgu.ac.il", freshOut, zap.NewNop())
			pending.Connect("films")

			pending.HandleCommand("join germany_japan")

			Expect(freshOut.String()).To(ContainSubstring("Please login first"))
			Expect(fresh.sentCount()).To(Equal(1)) // only CONNECT
		})
	})

	Describe("join", func() {
		It("sends SUBSCRIBE with destination, id and receipt", func() {
			session.HandleCommand("join germany_japan")

			sent := conn.Sent()
			subscribe := sent[len(sent)-1]
			Expect(subscribe.Command).To(Equal(protocol.SUBSCRIBE))
			Expect(subscribe.Headers).To(Equal([]protocol.Header{
				protocol.H("destination", "germany_japan"),
				protocol.H("id", "0"),
				protocol.H("receipt", "0"),
			}))
		})

		It("prints the confirmation only when the receipt arrives", func() {
			session.HandleCommand("join germany_japan")
			Expect(out.String()).NotTo(ContainSubstring("Joined channel"))

			session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))
			Expect(out.String()).To(ContainSubstring("Joined channel germany_japan"))
		})

		It("allows exiting a joined channel", func() {
			session.HandleCommand("join germany_japan")
			session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))

			session.HandleCommand("exit germany_japan")

			sent := conn.Sent()
			unsubscribe := sent[len(sent)-1]
			Expect(unsubscribe.Command).To(Equal(protocol.UNSUBSCRIBE))

			id, _ := unsubscribe.Header("id")
			Expect(id).To(Equal("0"))

			session.HandleFrame([]byte("RECEIPT\nreceipt-id:1\n\n"))
			Expect(out.String()).To(ContainSubstring("Exited channel germany_japan"))
		})
	})

	Describe("exit", func() {
		It("reports an error and sends nothing for an unjoined channel", func() {
			before := conn.sentCount()

			session.HandleCommand("exit germany_japan")

			Expect(out.String()).To(ContainSubstring("Not subscribed to channel germany_japan"))
			Expect(conn.sentCount()).To(Equal(before))
		})

		It("cannot exit the same channel twice", func() {
			session.HandleCommand("join germany_japan")
			session.HandleCommand("exit germany_japan")

			before := conn.sentCount()
			session.HandleCommand("exit germany_japan")

			Expect(conn.sentCount()).To(Equal(before))
		})
	})

	Describe("id allocation", func() {
		It("hands out strictly increasing subscription and receipt ids", func() {
			session.HandleCommand("join a_b")
			session.HandleCommand("join c_d")
			session.HandleCommand("exit a_b")
			session.HandleCommand("logout")

			var subIDs, receiptIDs []int
			for _, frame := range conn.Sent() {
				if frame.Command == protocol.SUBSCRIBE {
					id, _ := frame.Header("id")
					n, err := strconv.Atoi(id)
					Expect(err).To(Succeed())
					subIDs = append(subIDs, n)
				}

				if receipt, ok := frame.Header("receipt"); ok {
					n, err := strconv.Atoi(receipt)
					Expect(err).To(Succeed())
					receiptIDs = append(receiptIDs, n)
				}
			}

			Expect(subIDs).To(Equal([]int{0, 1}))
			Expect(receiptIDs).To(Equal([]int{0, 1, 2, 3}))
		})
	})

	Describe("ERROR frames", func() {
		It("prints the message header when present", func() {
			session.HandleFrame([]byte("ERROR\nmessage:wrong passcode\n\n"))
			Expect(out.String()).To(ContainSubstring("wrong passcode"))
		})

		It("falls back to the body", func() {
			session.HandleFrame([]byte("ERROR\n\nsomething broke"))
			Expect(out.String()).To(ContainSubstring("something broke"))
		})

		It("terminates the session and blocks further sends", func() {
			stop := session.HandleFrame([]byte("ERROR\nmessage:bye\n\n"))
			Expect(stop).To(BeFalse())

			before := conn.sentCount()
			session.HandleCommand("join germany_japan")
			session.HandleCommand("logout")

			Expect(conn.sentCount()).To(Equal(before))
			Expect(session.Done()).To(BeClosed())
		})
	})

	Describe("RECEIPT frames", func() {
		It("silently ignores unknown receipt ids", func() {
			stop := session.HandleFrame([]byte("RECEIPT\nreceipt-id:99\n\n"))
			Expect(stop).To(BeTrue())
			Expect(out.String()).NotTo(ContainSubstring("channel"))
		})

		It("silently ignores malformed receipt ids", func() {
			stop := session.HandleFrame([]byte("RECEIPT\nreceipt-id:banana\n\n"))
			Expect(stop).To(BeTrue())
		})

		It("consumes each receipt exactly once", func() {
			session.HandleCommand("join a_b")
			session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))
			session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))

			Expect(strings.Count(out.String(), "Joined channel a_b")).To(Equal(1))
		})
	})

	Describe("logout", func() {
		It("terminates only when the matching receipt arrives", func() {
			session.HandleCommand("logout")
			Expect(session.Done()).NotTo(BeClosed())

			stop := session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))
			Expect(stop).To(BeFalse())
			Expect(session.Done()).To(BeClosed())
		})

		It("sends no frames after the terminating receipt", func() {
			session.HandleCommand("logout")
			session.HandleFrame([]byte("RECEIPT\nreceipt-id:0\n\n"))

			before := conn.sentCount()
			session.HandleCommand("join a_b")
			Expect(conn.sentCount()).To(Equal(before))
		})
	})

	Describe("unrecognised commands", func() {
		It("ignores them without a notice", func() {
			before := out.String()
			session.HandleCommand("dance")
			Expect(out.String()).To(Equal(before))
		})
	})

	Describe("MESSAGE frames", func() {
		messageFrame := "MESSAGE\nsubscription:0\nmessage-id:5\ndestination:germany_japan\n\n" +
			"user:dana\nteam a:germany\nteam b:japan\nevent name:goal\ntime:32\n" +
			"general game updates:\nteam a updates:\nteam b updates:\ndescription:\nwhat a strike"

		It("echoes the raw frame", func() {
			session.HandleFrame([]byte(messageFrame))
			Expect(out.String()).To(ContainSubstring("event name:goal"))
		})

		It("records the event under the sending user", func() {
			session.HandleFrame([]byte(messageFrame))

			history := session.GameLog().Events("germany_japan", "dana")
			Expect(history).To(HaveLen(1))
			Expect(history[0].Name).To(Equal("goal"))
			Expect(history[0].Time).To(Equal(32))
		})

		It("strips a path prefix from the destination", func() {
			prefixed := "MESSAGE\ndestination:/topic/germany_japan\n\nuser:dana\nevent name:goal\ntime:1\ndescription:\nx"
			session.HandleFrame([]byte(prefixed))

			Expect(session.GameLog().Events("germany_japan", "dana")).To(HaveLen(1))
		})

		It("does not re-record the sender's own echoed events", func() {
			echo := "MESSAGE\ndestination:germany_japan\n\nuser:meni\nevent name:goal\ntime:1\ndescription:\nx"
			session.HandleFrame([]byte(echo))

			Expect(session.GameLog().Events("germany_japan", "meni")).To(BeEmpty())
		})

		It("skips the log when no sender is identified", func() {
			anonymous := "MESSAGE\ndestination:germany_japan\n\nevent name:goal\ntime:1\ndescription:\nx"
			session.HandleFrame([]byte(anonymous))

			Expect(session.GameLog().Users("germany_japan")).To(BeEmpty())
			// Still echoed.
			Expect(out.String()).To(ContainSubstring("event name:goal"))
		})
	})

	Describe("report", func() {
		It("sends one SEND per event, in file order, and logs them", func() {
			path := writeReportFile()

			session.HandleCommand("report " + path)

			var sends []protocol.Frame
			for _, frame := range conn.Sent() {
				if frame.Command == protocol.SEND {
					sends = append(sends, frame)
				}
			}

			Expect(sends).To(HaveLen(3))
			for _, frame := range sends {
				destination, _ := frame.Header("destination")
				Expect(destination).To(Equal("Germany_Japan"))
				Expect(frame.Body).To(ContainSubstring("team a:Germany"))
				Expect(frame.Body).To(ContainSubstring("team b:Japan"))
				Expect(frame.Body).To(ContainSubstring("general game updates:"))
				Expect(frame.Body).To(ContainSubstring("team a updates:"))
				Expect(frame.Body).To(ContainSubstring("team b updates:"))
			}

			Expect(sends[0].Body).To(ContainSubstring("event name:kickoff"))
			Expect(sends[1].Body).To(ContainSubstring("event name:goal"))
			Expect(sends[2].Body).To(ContainSubstring("event name:halftime"))

			history := session.GameLog().Events("Germany_Japan", "meni")
			Expect(history).To(HaveLen(3))
			Expect(history[0].Name).To(Equal("kickoff"))
			Expect(history[2].Name).To(Equal("halftime"))
		})

		It("reports a load error for a missing file", func() {
			before := conn.sentCount()

			session.HandleCommand("report /no/such/file.json")

			Expect(out.String()).To(ContainSubstring("Could not load events file"))
			Expect(conn.sentCount()).To(Equal(before))
		})
	})

	Describe("summary", func() {
		It("writes the summary for recorded events", func() {
			session.HandleCommand("report " + writeReportFile())

			outPath := filepath.Join(tempDir(), "summary.txt")
			session.HandleCommand("summary Germany_Japan meni " + outPath)

			data, err := os.ReadFile(outPath)
			Expect(err).To(Succeed())

			text := string(data)
			Expect(text).To(HavePrefix("Germany vs Japan\n"))
			Expect(text).To(ContainSubstring("0 - kickoff:"))
			Expect(text).To(ContainSubstring("32 - goal:"))
			Expect(text).To(ContainSubstring("45 - halftime:"))
			// Last write wins across events.
			Expect(text).To(ContainSubstring("before halftime:false"))
		})

		It("reports when nothing was recorded and writes no file", func() {
			outPath := filepath.Join(tempDir(), "summary.txt")

			session.HandleCommand("summary Germany_Japan ghost " + outPath)

			Expect(out.String()).To(ContainSubstring("No events recorded"))

			_, err := os.Stat(outPath)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})
})

const testReportJSON = `{
  "team a": "Germany",
  "team b": "Japan",
  "events": [
    {
      "event name": "kickoff",
      "time": 0,
      "general game updates": {"before halftime": "true"},
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

func tempDir() string {
	dir, err := os.MkdirTemp("", "client")
	Expect(err).To(Succeed())
	return dir
}

func writeReportFile() string {
	path := filepath.Join(tempDir(), "events.json")
	Expect(os.WriteFile(path, []byte(testReportJSON), 0644)).To(Succeed())
	return path
}
