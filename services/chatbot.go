package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Intent keys matched from free text.
const (
	intentJourneyPlanner = "journeyPlanner"
	intentAboutUs        = "aboutUs"
	intentServices       = "services"
	intentStatus         = "status"
	intentHelpline       = "helpline"
	intentEscalate       = "escalate"
)

// responseOrder fixes the order multi-intent answers are emitted in.
var responseOrder = []string{intentJourneyPlanner, intentAboutUs, intentServices, intentStatus, intentHelpline}

// Language describes a selectable chat language.
type Language struct {
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// Languages offered on the splash screen. Languages without a full pack fall
// back to English content.
var Languages = map[string]Language{
	"en": {Name: "English", NativeName: "English"},
	"hi": {Name: "Hindi", NativeName: "हिन्दी"},
	"kn": {Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	"mr": {Name: "Marathi", NativeName: "मराठी"},
	"te": {Name: "Telugu", NativeName: "తెలుగు"},
	"ta": {Name: "Tamil", NativeName: "தமிழ்"},
}

// QuickAction is a tappable shortcut shown alongside the input box.
type QuickAction struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Query string `json:"query"`
}

type languagePack struct {
	quickActions []QuickAction
	keywords     map[string]string // substring -> intent
	responses    map[string]string
}

var englishPack = &languagePack{
	quickActions: []QuickAction{
		{ID: intentJourneyPlanner, Text: "Journey Planner", Query: "plan journey"},
		{ID: intentAboutUs, Text: "Details About Us", Query: "about us"},
		{ID: intentServices, Text: "Services Offered", Query: "services"},
		{ID: intentStatus, Text: "Service Status", Query: "status"},
		{ID: intentHelpline, Text: "Helpline & Support", Query: "helpline"},
	},
	keywords: map[string]string{
		"journey": intentJourneyPlanner, "plan": intentJourneyPlanner, "traffic": intentJourneyPlanner, "route": intentJourneyPlanner,
		"about": intentAboutUs, "who are you": intentAboutUs,
		"service": intentServices, "offer": intentServices,
		"status": intentStatus, "system": intentStatus,
		"helpline": intentHelpline, "support": intentHelpline, "contact": intentHelpline,
		"report": intentServices, "track": intentServices, "map": intentServices, "leaderboard": intentServices,
		"emergency": intentEscalate, "urgent": intentEscalate, "fire": intentEscalate, "police": intentEscalate,
		"power cut": intentEscalate, "legal": intentEscalate, "dispute": intentEscalate, "stuck": intentEscalate,
	},
	responses: map[string]string{
		intentAboutUs:  "We are a community-driven platform dedicated to improving civic infrastructure. Citizens report problems, municipal teams fix them, and everyone can track the progress.",
		intentServices: "Our platform allows you to report civic issues like improper garbage disposal, illegal posters, public nuisance, or blocked footpaths. You can also track your reports on the map and see the community leaderboard.",
		intentStatus:   "All our reporting systems are currently operational.",
		intentHelpline: "For technical assistance, email support@civic-sense.org. For emergencies, please contact the standard city helpline at 100.",
		"greet":        "Hello! I'm the Civic Helper. How can I assist you today? You can ask me a question or choose from the options below.",
		"default":      "I appreciate you asking about that. My main role is to help with civic sense issues like reporting illegal posters or public nuisances. How can I assist you with a civic matter today? You can always choose from the main options below.",
		intentEscalate: "It sounds like you're dealing with a serious issue. For matters like this that require immediate or specialized attention, it's best to contact the official authorities directly. You can reach the city helpline at 100 or our dedicated support team at support@civic-sense.org for guidance.",
		"multiPartIntro":  "Excellent question! Let me cover those points for you:",
		"askJourneyStart": "Of course! To plan your journey, where are you starting from?",
		"askJourneyEnd":   "Got it. And where are you heading to?",
	},
}

var packs = map[string]*languagePack{
	"en": englishPack,
}

func packFor(lang string) *languagePack {
	if p, ok := packs[lang]; ok {
		return p
	}
	return englishPack
}

var trafficConditions = []string{
	"Heavy traffic near the flyover",
	"Slow moving traffic due to road work",
	"Clear roads with minor congestion",
	"An accident reported on the main road",
}

// session states
type dialogueState int

const (
	stateIdle dialogueState = iota
	stateAwaitingJourneyStart
	stateAwaitingJourneyEnd
)

type session struct {
	language      string
	state         dialogueState
	startLocation string
}

// Reply is what the bot sends back for one user turn.
type Reply struct {
	Replies          []string      `json:"replies"`
	ShowQuickActions bool          `json:"showQuickActions"`
	QuickActions     []QuickAction `json:"quickActions,omitempty"`
}

// Bot is the rule-based dialogue state machine. Sessions live in memory and
// do not survive a restart.
type Bot struct {
	mu       sync.Mutex
	sessions map[string]*session
	rng      *rand.Rand
}

func NewBot() *Bot {
	return &Bot{
		sessions: make(map[string]*session),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *Bot) session(id string) *session {
	s, ok := b.sessions[id]
	if !ok {
		s = &session{language: "en"}
		b.sessions[id] = s
	}
	return s
}

// Start leaves the language splash: it binds the session to a language and
// greets with the quick actions.
func (b *Bot) Start(sessionID, language string) Reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := Languages[language]; !ok {
		language = "en"
	}
	s := b.session(sessionID)
	s.language = language
	s.state = stateIdle
	s.startLocation = ""

	pack := packFor(language)
	return Reply{
		Replies:          []string{pack.responses["greet"]},
		ShowQuickActions: true,
		QuickActions:     pack.quickActions,
	}
}

// QuickAction handles a tap on one of the shortcut buttons.
func (b *Bot) QuickAction(sessionID, actionID string) Reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.session(sessionID)
	pack := packFor(s.language)

	if actionID == intentJourneyPlanner {
		s.state = stateAwaitingJourneyStart
		s.startLocation = ""
		return Reply{Replies: []string{pack.responses["askJourneyStart"]}}
	}
	if resp, ok := pack.responses[actionID]; ok {
		return Reply{Replies: []string{resp}}
	}
	return Reply{Replies: []string{pack.responses["default"]}, ShowQuickActions: true, QuickActions: pack.quickActions}
}

// Message handles free text according to the session's dialogue state.
func (b *Bot) Message(sessionID, text string) Reply {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.session(sessionID)
	pack := packFor(s.language)
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}
	}

	switch s.state {
	case stateAwaitingJourneyStart:
		s.startLocation = text
		s.state = stateAwaitingJourneyEnd
		return Reply{Replies: []string{pack.responses["askJourneyEnd"]}}

	case stateAwaitingJourneyEnd:
		start := s.startLocation
		s.state = stateIdle
		s.startLocation = ""
		return Reply{Replies: []string{b.journeyResult(start, text)}}
	}

	return b.keywordReply(s, pack, text)
}

// keywordReply is the flat table lookup: every keyword contained in the input
// queues its intent's response. Escalation wins outright; zero matches yields
// the default response and a prompt to use the quick actions.
func (b *Bot) keywordReply(s *session, pack *languagePack, text string) Reply {
	lower := strings.ToLower(text)
	matched := map[string]bool{}
	for keyword, intent := range pack.keywords {
		if strings.Contains(lower, keyword) {
			matched[intent] = true
		}
	}

	if matched[intentEscalate] {
		return Reply{Replies: []string{pack.responses[intentEscalate]}}
	}
	if len(matched) == 0 {
		return Reply{
			Replies:          []string{pack.responses["default"]},
			ShowQuickActions: true,
			QuickActions:     pack.quickActions,
		}
	}

	replies := []string{}
	if len(matched) > 1 {
		replies = append(replies, pack.responses["multiPartIntro"])
	}
	for _, intent := range responseOrder {
		if !matched[intent] {
			continue
		}
		if intent == intentJourneyPlanner {
			replies = append(replies, pack.responses["askJourneyStart"])
			s.state = stateAwaitingJourneyStart
			s.startLocation = ""
			continue
		}
		replies = append(replies, pack.responses[intent])
	}
	return Reply{Replies: replies}
}

// journeyResult simulates traffic for the requested leg.
func (b *Bot) journeyResult(from, to string) string {
	usual := b.rng.Intn(30) + 20
	delay := b.rng.Intn(25) + 5
	conditions := trafficConditions[b.rng.Intn(len(trafficConditions))]
	return fmt.Sprintf("Journey from %s to %s: usual time %d min, current time %d min (+%d min delay). Conditions: %s",
		from, to, usual, usual+delay, delay, conditions)
}
