package chatcmder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/transcript"
)

func completedTranscript() *transcript.Transcript {
	tr := transcript.New()
	tr.Replace("c1", []transcript.Message{
		{Role: transcript.RoleUser, Content: "what broke today?"},
		{Role: transcript.RoleAssistant, Content: "The boiler tripped at 06:12."},
	})
	return tr
}

var _ = Describe("sendFeedback", func() {
	var (
		cmder   *chatCommander
		server  *httptest.Server
		gotBody map[string]any
	)

	BeforeEach(func() {
		gotBody = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/feedback"))
			Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
			w.WriteHeader(http.StatusOK)
		}))
		cmder = &chatCommander{}
	})

	AfterEach(func() {
		server.Close()
	})

	It("rates the last completed assistant answer", func() {
		client := agent.NewClient(server.URL)
		tr := completedTranscript()

		err := cmder.sendFeedback(context.Background(), client, tr, "/feedback up")
		Expect(err).NotTo(HaveOccurred())

		Expect(gotBody).To(HaveKeyWithValue("conversation_id", "c1"))
		Expect(gotBody).To(HaveKeyWithValue("message_index", BeNumerically("==", 1)))
		Expect(gotBody).To(HaveKeyWithValue("rating", "up"))
	})

	It("rejects ratings other than up and down", func() {
		client := agent.NewClient(server.URL)

		err := cmder.sendFeedback(context.Background(), client, completedTranscript(), "/feedback sideways")
		Expect(err).To(MatchError(ContainSubstring("usage: /feedback")))
		Expect(gotBody).To(BeNil())
	})

	It("rejects feedback before any answer exists", func() {
		client := agent.NewClient(server.URL)

		err := cmder.sendFeedback(context.Background(), client, transcript.New(), "/feedback down")
		Expect(err).To(MatchError(ContainSubstring("no answer to rate")))
		Expect(gotBody).To(BeNil())
	})

	It("rejects feedback on a failed answer", func() {
		client := agent.NewClient(server.URL)

		tr := transcript.New()
		tr.Replace("c1", []transcript.Message{
			{Role: transcript.RoleUser, Content: "hello"},
			{Role: transcript.RoleAssistant, Content: "vector store unreachable", Error: true},
		})

		err := cmder.sendFeedback(context.Background(), client, tr, "/feedback up")
		Expect(err).To(MatchError(ContainSubstring("no completed answer")))
		Expect(gotBody).To(BeNil())
	})
})

var _ = Describe("lastContent", func() {
	It("returns the final message's content from one snapshot", func() {
		tr := transcript.New()
		Expect(tr.BeginTurn("hello")).To(BeTrue())
		tr.FailTransport(context.DeadlineExceeded)

		Expect(lastContent(tr)).To(HavePrefix("Error: "))
	})

	It("returns empty for an empty transcript", func() {
		Expect(lastContent(transcript.New())).To(BeEmpty())
	})
})
