package search

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

type entryFixture struct {
	id          string
	nameEN      string
	nameBN      string
	descEN      string
	descBN      string
	category    string
	subcategory string
	tags        []string
	featuresEN  []string
	featuresBN  []string
}

func newEntry(t *testing.T, f entryFixture) *domain.Entry {
	t.Helper()
	if f.nameBN == "" {
		f.nameBN = "পণ্য"
	}
	entry, err := domain.NewEntry(f.id, map[i18n.Language]i18n.LocalizedText{
		i18n.English: {Name: f.nameEN, Description: f.descEN},
		i18n.Bengali: {Name: f.nameBN, Description: f.descBN},
	}, decimal.NewFromInt(100))
	require.NoError(t, err)
	entry.Classify(f.category, f.subcategory)
	entry.ReplaceTags(f.tags)
	require.NoError(t, entry.ReplaceFeatures(i18n.English, f.featuresEN))
	require.NoError(t, entry.ReplaceFeatures(i18n.Bengali, f.featuresBN))
	return entry
}

func ids(entries []*domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func mugCatalog(t *testing.T) []*domain.Entry {
	return []*domain.Entry{
		newEntry(t, entryFixture{id: "love-mug", nameEN: "Love Mug", nameBN: "ভালোবাসার মগ", tags: []string{"love", "mug"}}),
		newEntry(t, entryFixture{id: "magic-mug", nameEN: "Magic Mug", nameBN: "জাদুর মগ", tags: []string{"magic"}}),
	}
}

func TestDefaultWeights(t *testing.T) {
	assert.Equal(t, Weights{
		Name:        10,
		Description: 8,
		Category:    6,
		Subcategory: 6,
		Tag:         5,
		Feature:     3,
		NameToken:   2,
	}, DefaultWeights)
	assert.Equal(t, 20, MaxResults)
}

func TestRank_MugScenario(t *testing.T) {
	catalog := mugCatalog(t)

	scored := NewRanker().RankScored("mug", catalog, i18n.English)

	require.Len(t, scored, 2)
	// name (10) + tag (5) + token (2) against name (10) + token (2)
	assert.Equal(t, "love-mug", scored[0].Entry.ID)
	assert.Equal(t, 17, scored[0].Score)
	assert.Equal(t, "magic-mug", scored[1].Entry.ID)
	assert.Equal(t, 12, scored[1].Score)
	assert.Equal(t, []string{"love-mug", "magic-mug"}, ids(Rank("mug", catalog, i18n.English)))
}

func TestRank_IsDeterministic(t *testing.T) {
	catalog := []*domain.Entry{
		newEntry(t, entryFixture{id: "a", nameEN: "Rose Mug"}),
		newEntry(t, entryFixture{id: "b", nameEN: "Tulip Mug"}),
		newEntry(t, entryFixture{id: "c", nameEN: "Mug Stand", tags: []string{"mug"}}),
		newEntry(t, entryFixture{id: "d", nameEN: "Lily Mug"}),
	}

	first := ids(Rank("mug", catalog, i18n.English))
	second := ids(Rank("mug", catalog, i18n.English))

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"c", "a", "b", "d"}, first)
}

func TestScore_MatchingTagAddsExactlyFive(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug", tags: []string{"magic"}})
	before := Score("mug", entry, i18n.English)

	entry.ReplaceTags(append(entry.Tags, "mugs"))
	after := Score("mug", entry, i18n.English)

	assert.Equal(t, before+5, after)
}

func TestRank_ExcludesZeroScore(t *testing.T) {
	catalog := []*domain.Entry{
		newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug"}),
		newEntry(t, entryFixture{id: "plate", nameEN: "Dinner Plate", tags: []string{"ceramic"}}),
	}

	result := Rank("mug", catalog, i18n.English)

	assert.Equal(t, []string{"mug"}, ids(result))
}

func TestRank_CapsAtTwenty(t *testing.T) {
	catalog := make([]*domain.Entry, 0, 50)
	for i := 0; i < 50; i++ {
		catalog = append(catalog, newEntry(t, entryFixture{id: fmt.Sprintf("mug-%02d", i), nameEN: fmt.Sprintf("Mug %d", i)}))
	}

	result := Rank("mug", catalog, i18n.English)

	require.Len(t, result, 20)
	assert.Equal(t, "mug-00", result[0].ID)
	assert.Equal(t, "mug-19", result[19].ID)
}

func TestRank_BlankQueryReturnsCatalogInOrder(t *testing.T) {
	catalog := mugCatalog(t)
	catalog = append([]*domain.Entry{newEntry(t, entryFixture{id: "plate", nameEN: "Plate"})}, catalog...)

	for _, query := range []string{"", "   ", "\t\n"} {
		assert.Equal(t, []string{"plate", "love-mug", "magic-mug"}, ids(Rank(query, catalog, i18n.English)))
	}
	assert.Empty(t, NewRanker().RankScored(" ", catalog, i18n.English))
}

func TestRank_EmptyCatalog(t *testing.T) {
	result := Rank("mug", nil, i18n.English)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestRank_ShortQueryStillMatchesWholeString(t *testing.T) {
	catalog := []*domain.Entry{
		newEntry(t, entryFixture{id: "tv", nameEN: "TV Stand"}),
		newEntry(t, entryFixture{id: "lamp", nameEN: "Desk Lamp"}),
	}

	scored := NewRanker().RankScored("tv", catalog, i18n.English)

	require.Len(t, scored, 1)
	assert.Equal(t, "tv", scored[0].Entry.ID)
	assert.Equal(t, 10, scored[0].Score)
}

func TestScore_CaseInsensitiveAndTrimmed(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug"})
	assert.Equal(t, Score("mug", entry, i18n.English), Score("  MUG ", entry, i18n.English))
}

func TestScore_CrossLanguageName(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug", nameBN: "জাদুর মগ"})

	assert.Equal(t, 10, Score("মগ", entry, i18n.English))
	assert.Equal(t, 10, Score("মগ", entry, i18n.Bengali))
	assert.Equal(t, 12, Score("magic", entry, i18n.Bengali))
}

func TestScore_NameInBothLanguagesCountsTwice(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "tshirt", nameEN: "Polo T-Shirt", nameBN: "পোলো T-Shirt"})
	// two name matches plus the token in both names
	assert.Equal(t, 24, Score("t-shirt", entry, i18n.English))
}

func TestScore_DescriptionCountsOnce(t *testing.T) {
	entry := newEntry(t, entryFixture{
		id:     "mug",
		nameEN: "Magic Mug",
		descEN: "Hand painted ceramic",
		descBN: "হাতে আঁকা ceramic",
	})
	assert.Equal(t, 8, Score("ceramic", entry, i18n.English))
}

func TestScore_ClassificationFields(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug", category: "kitchen", subcategory: "kitchenware"})
	assert.Equal(t, 12, Score("kitchen", entry, i18n.English))
	assert.Equal(t, 6, Score("ware", entry, i18n.English))
}

func TestScore_TagsAccumulate(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "frame", nameEN: "Photo Frame", tags: []string{"gift", "gifts", "giftbox"}})
	assert.Equal(t, 15, Score("gift", entry, i18n.English))
}

func TestScore_FeaturesPerPhraseAcrossLanguages(t *testing.T) {
	entry := newEntry(t, entryFixture{
		id:         "mug",
		nameEN:     "Magic Mug",
		featuresEN: []string{"Microwave safe", "Dishwasher safe", "350 ml"},
		featuresBN: []string{"মাইক্রোওয়েভ safe"},
	})
	assert.Equal(t, 9, Score("safe", entry, i18n.English))
}

func TestScore_MultiWordQueryAddsTokenMatches(t *testing.T) {
	catalog := mugCatalog(t)

	scored := NewRanker().RankScored("love mug", catalog, i18n.English)

	require.Len(t, scored, 2)
	// full name match (10) + "love" (2) + "mug" (2)
	assert.Equal(t, "love-mug", scored[0].Entry.ID)
	assert.Equal(t, 14, scored[0].Score)
	assert.Equal(t, "magic-mug", scored[1].Entry.ID)
	assert.Equal(t, 2, scored[1].Score)
}

func TestScore_SingleWordIsAlsoAToken(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "set", nameEN: "Coffee Mugs Set"})
	assert.Equal(t, 12, Score("mugs", entry, i18n.English))
	assert.Equal(t, 10, Score("mu", newEntry(t, entryFixture{id: "mu", nameEN: "Mu Cup"}), i18n.English))
}

func TestScore_TokensShorterThanThreeRunesIgnored(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "mug", nameEN: "Magic Mug"})

	assert.Equal(t, 2, Score("a mug", entry, i18n.English))
	assert.Equal(t, 0, Score("ma gi", entry, i18n.English))
}

func TestScore_TokenMatchesPerLanguage(t *testing.T) {
	entry := newEntry(t, entryFixture{id: "lamp", nameEN: "Desk Lamp", nameBN: "ডেস্ক Lamp"})
	// "lamp" matches both names, "brass" matches neither
	assert.Equal(t, 4, Score("brass lamp", entry, i18n.English))
}

func TestRanker_Options(t *testing.T) {
	catalog := []*domain.Entry{
		newEntry(t, entryFixture{id: "a", nameEN: "Mug"}),
		newEntry(t, entryFixture{id: "b", nameEN: "Plate", tags: []string{"mug"}}),
		newEntry(t, entryFixture{id: "c", nameEN: "Mug Tree"}),
	}
	weights := DefaultWeights
	weights.Tag = 50

	ranker := NewRanker(WithWeights(weights), WithLimit(2))

	assert.Equal(t, []string{"b", "a"}, ids(ranker.Rank("mug", catalog, i18n.English)))
	assert.Len(t, NewRanker(WithLimit(0)).Rank("mug", catalog, i18n.English), 3)
}

func TestRank_SkipsNilEntries(t *testing.T) {
	catalog := []*domain.Entry{nil, newEntry(t, entryFixture{id: "mug", nameEN: "Mug"})}
	assert.Equal(t, []string{"mug"}, ids(Rank("mug", catalog, i18n.English)))
	assert.Equal(t, []string{"mug"}, ids(Rank("", catalog, i18n.English)))
}
