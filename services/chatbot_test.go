package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity-be/services"
)

func TestBotStartGreetsWithQuickActions(t *testing.T) {
	bot := services.NewBot()

	reply := bot.Start("s1", "en")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "Civic Helper")
	assert.True(t, reply.ShowQuickActions)
	assert.Len(t, reply.QuickActions, 5)
}

func TestBotUnknownLanguageFallsBackToEnglish(t *testing.T) {
	bot := services.NewBot()

	reply := bot.Start("s1", "xx")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "Civic Helper")
}

func TestBotSingleKeywordMatch(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.Message("s1", "what services do you offer?")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "report civic issues")
	assert.False(t, reply.ShowQuickActions)
}

func TestBotMultipleMatchesGetIntro(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.Message("s1", "tell me about your services and the helpline")
	require.Len(t, reply.Replies, 4)
	assert.Contains(t, reply.Replies[0], "Excellent question")
	assert.Contains(t, reply.Replies[1], "community-driven platform")
	assert.Contains(t, reply.Replies[2], "report civic issues")
	assert.Contains(t, reply.Replies[3], "support@civic-sense.org")
}

func TestBotEscalateOverridesEverything(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.Message("s1", "urgent! fire near the station, what services exist?")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "official authorities")
}

func TestBotDefaultResponsePromptsQuickActions(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.Message("s1", "what is the weather like")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "civic sense issues")
	assert.True(t, reply.ShowQuickActions)
	assert.NotEmpty(t, reply.QuickActions)
}

func TestBotJourneyPlannerFlow(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.Message("s1", "please plan my journey")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "where are you starting from")

	reply = bot.Message("s1", "City Center")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "where are you heading to")

	reply = bot.Message("s1", "Airport")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "Journey from City Center to Airport")
	assert.Contains(t, reply.Replies[0], "min delay")

	// journey done, back to keyword matching
	reply = bot.Message("s1", "status please")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "operational")
}

func TestBotQuickActionJourneyPlanner(t *testing.T) {
	bot := services.NewBot()
	bot.Start("s1", "en")

	reply := bot.QuickAction("s1", "journeyPlanner")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "where are you starting from")
}

func TestBotSessionsAreIndependent(t *testing.T) {
	bot := services.NewBot()
	bot.Start("a", "en")
	bot.Start("b", "en")

	bot.Message("a", "plan a trip")
	// session b is still idle and keyword-matches normally
	reply := bot.Message("b", "helpline number?")
	require.Len(t, reply.Replies, 1)
	assert.Contains(t, reply.Replies[0], "support@civic-sense.org")
}
