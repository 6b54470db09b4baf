package corpus

import (
	"testing"

	"github.com/standardbeagle/lexicore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SortedAndIndexed(t *testing.T) {
	s := NewStore()
	c, err := s.Create("fruits", []string{"banana", "Apple", "cherry"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)

	require.Equal(t, []string{"apple", "banana", "cherry"}, c.Vocabulary)
	for i, w := range c.Vocabulary {
		assert.Equal(t, i, c.VocabularyToIndex[w])
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	s := NewStore()
	_, err := s.Create("fruits", []string{"apple"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)

	_, err = s.Create("fruits", []string{"banana"}, types.LanguageEnglish, types.CorpusLexicon)
	require.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	s := NewStore()
	_, err := s.Get("missing")
	require.Error(t, err)
}

func TestAddWords_SkipsDuplicates(t *testing.T) {
	s := NewStore()
	c, _ := s.Create("c", []string{"apple"}, types.LanguageEnglish, types.CorpusLexicon)

	added, err := s.AddWords(c.ID, []string{"Apple", "banana"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	c2, _ := s.GetByID(c.ID)
	assert.Equal(t, []string{"apple", "banana"}, c2.Vocabulary)
}

func TestAddRemoveWords_RoundTripRestoresHash(t *testing.T) {
	s := NewStore()
	c, _ := s.Create("c", []string{"apple", "cherry"}, types.LanguageEnglish, types.CorpusLexicon)
	originalHash := c.VocabularyHash

	_, err := s.AddWords(c.ID, []string{"banana", "date"})
	require.NoError(t, err)

	err = s.RemoveWords(c.ID, []string{"banana", "date"})
	require.NoError(t, err)

	final, _ := s.GetByID(c.ID)
	assert.Equal(t, originalHash, final.VocabularyHash)
}

func TestRemoveWords_RetainsOriginalSurfaceIfStillPresent(t *testing.T) {
	s := NewStore()
	// Two different original surfaces normalize to "apple".
	c, _ := s.Create("c", []string{"Apple", "APPLE"}, types.LanguageEnglish, types.CorpusLexicon)
	require.Equal(t, []string{"apple"}, c.Vocabulary)
	require.Len(t, c.OriginalVocabulary, 2)

	// Removing a word that doesn't exist shouldn't touch surfaces of one that does.
	err := s.RemoveWords(c.ID, []string{"banana"})
	require.NoError(t, err)

	after, _ := s.GetByID(c.ID)
	assert.Len(t, after.OriginalVocabulary, 2)
	assert.ElementsMatch(t, []string{"Apple", "APPLE"}, after.NormalizedToOriginal["apple"])
}

func TestRebuild_LemmatizesEnglishVocabulary(t *testing.T) {
	s := NewStore()
	c, err := s.Create("c", []string{"running", "runs", "cat"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)

	require.Len(t, c.LemmatizedVocabulary, len(c.Vocabulary))
	for i, w := range c.Vocabulary {
		assert.Equal(t, c.WordToLemma[w], c.LemmatizedVocabulary[i])
	}
	assert.Equal(t, "run", c.WordToLemma["running"])
	assert.Equal(t, "run", c.WordToLemma["runs"])
	assert.ElementsMatch(t, []string{"running", "runs"}, c.LemmaToWords["run"])
	assert.Equal(t, "cat", c.WordToLemma["cat"], "a word the stemmer leaves unchanged keeps its own form as lemma")
}

func TestRebuild_LemmatizesPhrasePerToken(t *testing.T) {
	s := NewStore()
	c, err := s.Create("c", []string{"running shoes"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)

	assert.Equal(t, "run shoe", c.WordToLemma["running shoes"])
}

func TestRebuild_NoLemmasForUnsupportedLanguage(t *testing.T) {
	s := NewStore()
	c, err := s.Create("c", []string{"courant"}, types.LanguageFrench, types.CorpusLexicon)
	require.NoError(t, err)

	assert.Nil(t, c.LemmatizedVocabulary)
	assert.Nil(t, c.WordToLemma)
	assert.Nil(t, c.LemmaToWords)
}

func TestRebuild_LemmasFollowMutation(t *testing.T) {
	s := NewStore()
	c, err := s.Create("c", []string{"running"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)
	require.Len(t, c.LemmatizedVocabulary, 1)

	_, err = s.AddWords(c.ID, []string{"jumping"})
	require.NoError(t, err)

	after, _ := s.GetByID(c.ID)
	require.Len(t, after.LemmatizedVocabulary, 2)
	assert.Equal(t, "jump", after.WordToLemma["jumping"])
}

func TestRemoveWords_DropsSurfacesOfRemovedForm(t *testing.T) {
	s := NewStore()
	c, _ := s.Create("c", []string{"Apple", "APPLE", "banana"}, types.LanguageEnglish, types.CorpusLexicon)
	require.Len(t, c.OriginalVocabulary, 3)

	err := s.RemoveWords(c.ID, []string{"apple"})
	require.NoError(t, err)

	after, _ := s.GetByID(c.ID)
	assert.Equal(t, []string{"banana"}, after.Vocabulary)
	assert.Equal(t, []string{"banana"}, after.OriginalVocabulary,
		"every surface of a removed normalized form must leave the bag")
	assert.Empty(t, after.NormalizedToOriginal["apple"])
}

func TestDelete_RefusesWithChildren(t *testing.T) {
	s := NewStore()
	parent, _ := s.Create("parent", nil, types.LanguageEnglish, types.CorpusLanguage)
	child, _ := s.Create("child", []string{"a"}, types.LanguageEnglish, types.CorpusLanguage)
	require.NoError(t, s.AttachChild(parent.ID, child.ID))

	err := s.Delete(parent.ID, false)
	require.Error(t, err)

	require.NoError(t, s.Delete(parent.ID, true))
	_, err = s.GetByID(child.ID)
	require.Error(t, err)
}

func TestAttachChild_RejectsCycle(t *testing.T) {
	s := NewStore()
	a, _ := s.Create("a", nil, types.LanguageEnglish, types.CorpusLanguage)
	b, _ := s.Create("b", nil, types.LanguageEnglish, types.CorpusLanguage)
	require.NoError(t, s.AttachChild(a.ID, b.ID))

	err := s.AttachChild(b.ID, a.ID)
	require.Error(t, err)
}

func TestAttachChild_RejectsSelfParenting(t *testing.T) {
	s := NewStore()
	a, _ := s.Create("a", nil, types.LanguageEnglish, types.CorpusLanguage)
	err := s.AttachChild(a.ID, a.ID)
	require.Error(t, err)
}

func TestAggregateMaster_UnionOfChildren(t *testing.T) {
	s := NewStore()
	master, _ := s.Create("master", nil, types.LanguageEnglish, types.CorpusLanguage)
	c1, _ := s.Create("c1", []string{"a", "b"}, types.LanguageEnglish, types.CorpusLanguage)
	c2, _ := s.Create("c2", []string{"b", "c"}, types.LanguageEnglish, types.CorpusLanguage)

	require.NoError(t, s.AttachChild(master.ID, c1.ID))
	require.NoError(t, s.AttachChild(master.ID, c2.ID))
	require.NoError(t, s.AggregateMaster(master.ID))

	m, _ := s.GetByID(master.ID)
	assert.Equal(t, []string{"a", "b", "c"}, m.Vocabulary)

	fresh, _ := s.Create("fresh", []string{"a", "b", "c"}, types.LanguageEnglish, types.CorpusLexicon)
	assert.Equal(t, fresh.VocabularyHash, m.VocabularyHash)
}

func TestAggregateMaster_Idempotent(t *testing.T) {
	s := NewStore()
	master, _ := s.Create("master", nil, types.LanguageEnglish, types.CorpusLanguage)
	c1, _ := s.Create("c1", []string{"a", "b"}, types.LanguageEnglish, types.CorpusLanguage)
	require.NoError(t, s.AttachChild(master.ID, c1.ID))

	require.NoError(t, s.AggregateMaster(master.ID))
	first, _ := s.GetByID(master.ID)
	require.NoError(t, s.AggregateMaster(master.ID))
	second, _ := s.GetByID(master.ID)

	assert.Equal(t, first.Vocabulary, second.Vocabulary)
	assert.Equal(t, first.VocabularyHash, second.VocabularyHash)
}

func TestCopyOnWrite_OldReaderUnaffected(t *testing.T) {
	s := NewStore()
	c, _ := s.Create("c", []string{"apple"}, types.LanguageEnglish, types.CorpusLexicon)
	old := c

	_, err := s.AddWords(c.ID, []string{"banana"})
	require.NoError(t, err)

	assert.Equal(t, []string{"apple"}, old.Vocabulary, "old snapshot must be unaffected by later mutation")

	fresh, _ := s.GetByID(c.ID)
	assert.Equal(t, []string{"apple", "banana"}, fresh.Vocabulary)
}
