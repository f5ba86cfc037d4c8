package transcript_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plantworksco/foreman/pkg/transcript"
)

var _ = Describe("Transcript", func() {
	var tr *transcript.Transcript

	BeforeEach(func() {
		tr = transcript.New()
	})

	Describe("BeginTurn", func() {
		It("appends the user message and assistant placeholder together", func() {
			Expect(tr.BeginTurn("hello")).To(BeTrue())

			msgs := tr.Messages()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Role).To(Equal(transcript.RoleUser))
			Expect(msgs[0].Content).To(Equal("hello"))
			Expect(msgs[1].Role).To(Equal(transcript.RoleAssistant))
			Expect(msgs[1].Content).To(BeEmpty())
			Expect(msgs[1].Loading).To(BeTrue())
		})

		It("rejects a second submit while a turn is in flight", func() {
			Expect(tr.BeginTurn("first")).To(BeTrue())
			before := tr.Len()

			Expect(tr.BeginTurn("second")).To(BeFalse())
			Expect(tr.Len()).To(Equal(before))
		})

		It("allows a new turn after the previous one completed", func() {
			tr.BeginTurn("first")
			tr.CompleteTurn()

			Expect(tr.BeginTurn("second")).To(BeTrue())
			Expect(tr.Len()).To(Equal(4))
		})

		It("allows a new turn after the previous one failed", func() {
			tr.BeginTurn("first")
			tr.FailTurn("agent unavailable")

			Expect(tr.BeginTurn("second")).To(BeTrue())
		})
	})

	Describe("AppendChunk", func() {
		BeforeEach(func() {
			tr.BeginTurn("hello")
		})

		It("accumulates chunks in arrival order", func() {
			tr.AppendChunk("ab")
			tr.AppendChunk("cd")

			Expect(lastContent(tr)).To(Equal("abcd"))
		})

		It("is order sensitive", func() {
			tr.AppendChunk("cd")
			tr.AppendChunk("ab")

			Expect(lastContent(tr)).To(Equal("cdab"))
		})

		It("strips leading whitespace from only the first chunk", func() {
			tr.AppendChunk("  hello")
			tr.AppendChunk(" world")

			Expect(lastContent(tr)).To(Equal("hello world"))
		})

		It("returns the transformed text that was appended", func() {
			Expect(tr.AppendChunk("\n\t hi")).To(Equal("hi"))
			Expect(tr.AppendChunk(" there")).To(Equal(" there"))
		})

		It("consumes the first-token trim even when the chunk is all whitespace", func() {
			tr.AppendChunk("   ")
			tr.AppendChunk(" next")

			Expect(lastContent(tr)).To(Equal(" next"))
		})

		It("drops chunks when no turn is in flight", func() {
			tr.CompleteTurn()

			Expect(tr.AppendChunk("late")).To(BeEmpty())
			Expect(lastContent(tr)).To(BeEmpty())
		})

		Describe("bullet reflow", func() {
			It("moves inline bullets onto their own lines", func() {
				tr.AppendChunk("a• b• c")

				Expect(lastContent(tr)).To(Equal("a\n • b\n • c"))
			})

			It("leaves bullets already at the start of a line alone", func() {
				tr.AppendChunk("list:\n• one\n• two")

				Expect(lastContent(tr)).To(Equal("list:\n• one\n• two"))
			})

			It("handles a bullet at a chunk boundary after a newline", func() {
				tr.AppendChunk("list:\n")
				tr.AppendChunk("• one")

				Expect(lastContent(tr)).To(Equal("list:\n• one"))
			})

			It("handles a bullet at a chunk boundary after text", func() {
				tr.AppendChunk("inline")
				tr.AppendChunk("• item")

				Expect(lastContent(tr)).To(Equal("inline\n • item"))
			})

			It("preserves all non-bullet characters exactly", func() {
				tr.AppendChunk("π ≈ 3.14159 — no change")

				Expect(lastContent(tr)).To(Equal("π ≈ 3.14159 — no change"))
			})
		})
	})

	Describe("BindConversationID", func() {
		It("binds on first observation", func() {
			first, err := tr.BindConversationID("c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(BeTrue())
			Expect(tr.ConversationID()).To(Equal("c1"))
		})

		It("treats a repeated identical id as a no-op", func() {
			_, err := tr.BindConversationID("c1")
			Expect(err).NotTo(HaveOccurred())

			first, err := tr.BindConversationID("c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(BeFalse())
		})

		It("rejects a conflicting second id", func() {
			_, err := tr.BindConversationID("c1")
			Expect(err).NotTo(HaveOccurred())

			_, err = tr.BindConversationID("c2")
			Expect(err).To(HaveOccurred())
			Expect(tr.ConversationID()).To(Equal("c1"))
		})
	})

	Describe("terminal transitions", func() {
		BeforeEach(func() {
			tr.BeginTurn("hello")
		})

		It("CompleteTurn clears loading and keeps content", func() {
			tr.AppendChunk("Hi there")
			tr.CompleteTurn()

			last := lastMessage(tr)
			Expect(last.Loading).To(BeFalse())
			Expect(last.Error).To(BeFalse())
			Expect(last.Content).To(Equal("Hi there"))
		})

		It("FailTurn replaces partial content with the error message", func() {
			tr.AppendChunk("partial")
			tr.FailTurn("upstream model exploded")

			last := lastMessage(tr)
			Expect(last.Loading).To(BeFalse())
			Expect(last.Error).To(BeTrue())
			Expect(last.Content).To(Equal("upstream model exploded"))
		})

		It("FailTransport synthesizes an Error message", func() {
			tr.FailTransport(errors.New("connection refused"))

			last := lastMessage(tr)
			Expect(last.Loading).To(BeFalse())
			Expect(last.Error).To(BeTrue())
			Expect(last.Content).To(Equal("Error: connection refused"))
		})

		It("ignores events after the turn has ended", func() {
			tr.AppendChunk("done content")
			tr.CompleteTurn()

			tr.AppendChunk(" extra")
			tr.FailTurn("too late")
			tr.CompleteTurn()

			last := lastMessage(tr)
			Expect(last.Content).To(Equal("done content"))
			Expect(last.Error).To(BeFalse())
			Expect(last.Loading).To(BeFalse())
		})

		It("prior messages survive a failed turn unchanged", func() {
			tr.AppendChunk("first answer")
			tr.CompleteTurn()
			tr.BeginTurn("second question")
			tr.FailTurn("boom")

			msgs := tr.Messages()
			Expect(msgs[0].Content).To(Equal("hello"))
			Expect(msgs[1].Content).To(Equal("first answer"))
			Expect(msgs[1].Error).To(BeFalse())
			Expect(msgs[2].Content).To(Equal("second question"))
		})
	})

	Describe("Replace", func() {
		It("swaps in server history wholesale", func() {
			tr.BeginTurn("local")
			tr.CompleteTurn()

			history := []transcript.Message{
				{Role: transcript.RoleUser, Content: "old question"},
				{Role: transcript.RoleAssistant, Content: "old answer"},
			}
			tr.Replace("c9", history)

			Expect(tr.ConversationID()).To(Equal("c9"))
			Expect(tr.Messages()).To(Equal(history))
		})

		It("does not alias the caller's slice", func() {
			history := []transcript.Message{{Role: transcript.RoleUser, Content: "q"}}
			tr.Replace("c1", history)

			history[0].Content = "mutated"
			Expect(tr.Messages()[0].Content).To(Equal("q"))
		})
	})
})

func lastMessage(tr *transcript.Transcript) transcript.Message {
	msgs := tr.Messages()
	Expect(msgs).NotTo(BeEmpty())
	return msgs[len(msgs)-1]
}

func lastContent(tr *transcript.Transcript) string {
	return lastMessage(tr).Content
}
