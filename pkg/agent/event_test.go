package agent_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plantworksco/foreman/pkg/agent"
)

var _ = Describe("Classify", func() {
	Context("with the [DONE] sentinel", func() {
		It("classifies the literal sentinel as done", func() {
			ev, ok := agent.Classify("[DONE]")
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindDone))
		})

		It("trims surrounding whitespace before matching", func() {
			ev, ok := agent.Classify("  [DONE]\n")
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindDone))
		})
	})

	Context("with typed JSON frames", func() {
		It("classifies a chunk with string content", func() {
			ev, ok := agent.Classify(`{"type":"chunk","content":"Hello "}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal("Hello "))
		})

		It("classifies a typed done frame", func() {
			ev, ok := agent.Classify(`{"type":"done"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindDone))
		})

		It("classifies an error with a string message", func() {
			ev, ok := agent.Classify(`{"type":"error","message":"model overloaded"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindError))
			Expect(ev.Message).To(Equal("model overloaded"))
		})

		It("classifies a conversation_id with a string id", func() {
			ev, ok := agent.Classify(`{"type":"conversation_id","id":"abc-123"}`)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindConversationID))
			Expect(ev.ID).To(Equal("abc-123"))
		})
	})

	Context("with unrecognized payloads", func() {
		It("treats JSON with an unknown type as a literal chunk", func() {
			raw := `{"type":"usage","tokens":42}`
			ev, ok := agent.Classify(raw)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal(raw))
		})

		It("treats JSON without a type as a literal chunk", func() {
			raw := `{"content":"orphaned"}`
			ev, ok := agent.Classify(raw)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal(raw))
		})

		It("treats a chunk frame with non-string content as a literal chunk", func() {
			raw := `{"type":"chunk","content":42}`
			ev, ok := agent.Classify(raw)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal(raw))
		})

		It("treats malformed JSON as a literal chunk", func() {
			raw := `{"type":"chunk","content":`
			ev, ok := agent.Classify(raw)
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal(raw))
		})

		It("treats plain text as a literal chunk", func() {
			ev, ok := agent.Classify("upstream provider said something unstructured")
			Expect(ok).To(BeTrue())
			Expect(ev.Kind).To(Equal(agent.KindChunk))
			Expect(ev.Content).To(Equal("upstream provider said something unstructured"))
		})
	})

	Context("with blank frames", func() {
		It("skips an empty payload", func() {
			_, ok := agent.Classify("")
			Expect(ok).To(BeFalse())
		})

		It("skips a whitespace-only payload", func() {
			_, ok := agent.Classify("  \n\t ")
			Expect(ok).To(BeFalse())
		})
	})
})
