package prefixtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) []rune {
	return []rune(s)
}

func results(pairs ...any) []Result[string] {
	out := make([]Result[string], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Result[string]{Value: pairs[i].(string), Weight: float64(pairs[i+1].(int))})
	}
	return out
}

// insertWords inserts each word under its own runes.
func insertWords(t *testing.T, tree Autocompleter[string, rune], words map[string]float64, order []string) {
	t.Helper()
	for _, w := range order {
		require.NoError(t, tree.Insert(w, words[w], runes(w)))
	}
}

func TestSimpleTreeScenario(t *testing.T) {
	tree := NewSimple[string, rune](Sum)
	require.NoError(t, tree.Insert("hello", 80, runes("hello")))
	require.NoError(t, tree.Insert("help", 10, runes("help")))
	require.NoError(t, tree.Insert("he", 109, runes("he")))

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, results("he", 109, "hello", 80, "help", 10), tree.Autocomplete(runes("he"), NoLimit))
	assert.Equal(t, results("hello", 80, "help", 10), tree.Autocomplete(runes("hel"), NoLimit))
	require.NoError(t, tree.Validate())

	tree.Remove(runes("hel"))
	assert.Equal(t, results("he", 109), tree.Autocomplete(runes("he"), NoLimit))
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 109.0, tree.Weight())
	require.NoError(t, tree.Validate())
}

func TestSimpleTreeAverage(t *testing.T) {
	tree := NewSimple[string, rune](Average)
	require.NoError(t, tree.Insert("abc", 10, runes("abc")))
	require.NoError(t, tree.Insert("apples", 60, runes("apples")))

	require.Len(t, tree.root.children, 1)
	a := tree.root.children[0]
	assert.Equal(t, runes("a"), a.prefix)
	assert.Equal(t, 35.0, a.weight)
	assert.Equal(t, 2, a.count)
	require.NoError(t, tree.Validate())
}

func TestSimpleTreeChain(t *testing.T) {
	tree := NewSimple[string, rune](Sum)
	require.NoError(t, tree.Insert("hello", 20, runes("hello")))
	require.NoError(t, tree.Insert("hello", 7, runes("hello")))

	assert.Equal(t, 1, tree.Len())
	n := tree.root
	for depth := 1; depth <= 5; depth++ {
		require.Len(t, n.children, 1)
		n = n.children[0]
		assert.Equal(t, runes("hello")[:depth], n.prefix)
		assert.Equal(t, 27.0, n.weight)
		assert.Equal(t, 1, n.count)
	}
	require.Len(t, n.children, 1)
	assert.True(t, n.children[0].leaf)
	assert.Equal(t, "hello", n.children[0].value)
	require.NoError(t, tree.Validate())
}

func TestSimpleTreeAutocomplete(t *testing.T) {
	words := map[string]float64{
		"hello": 80, "help": 10, "hell": 20, "he": 109,
		"heart": 50, "heal": 45, "heap": 46, "heat": 47, "all": 100,
	}
	order := []string{"hello", "help", "hell", "he", "heart", "heal", "heap", "heat", "all"}
	tree := NewSimple[string, rune](Sum)
	insertWords(t, tree, words, order)

	testCases := []struct {
		prefix      string
		limit       int
		expected    []Result[string]
		description string
	}{
		{"", NoLimit, results("he", 109, "all", 100, "hello", 80, "heart", 50, "heat", 47, "heap", 46, "heal", 45, "hell", 20, "help", 10), "Everything"},
		{"he", NoLimit, results("he", 109, "hello", 80, "heart", 50, "heat", 47, "heap", 46, "heal", 45, "hell", 20, "help", 10), "Shared prefix"},
		{"hea", NoLimit, results("heart", 50, "heat", 47, "heap", 46, "heal", 45), "Inner branch"},
		{"he", 3, results("he", 109, "hello", 80, "heart", 50), "Exact top three"},
		{"he", 8, results("he", 109, "hello", 80, "heart", 50, "heat", 47, "heap", 46, "heal", 45, "hell", 20, "help", 10), "Limit equals matches"},
		{"he", 50, results("he", 109, "hello", 80, "heart", 50, "heat", 47, "heap", 46, "heal", 45, "hell", 20, "help", 10), "Limit above matches"},
		{"all", 1, results("all", 100), "Full word"},
		{"none", NoLimit, nil, "Missing prefix"},
		{"hellos", NoLimit, nil, "Longer than any value"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := tree.Autocomplete(runes(tc.prefix), tc.limit)
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSimpleTreeAdditiveWeight(t *testing.T) {
	twice := NewSimple[string, rune](Sum)
	require.NoError(t, twice.Insert("cat", 3, runes("cat")))
	require.NoError(t, twice.Insert("car", 4, runes("car")))
	require.NoError(t, twice.Insert("cat", 5, runes("cat")))

	once := NewSimple[string, rune](Sum)
	require.NoError(t, once.Insert("cat", 8, runes("cat")))
	require.NoError(t, once.Insert("car", 4, runes("car")))

	assert.Equal(t, 2, twice.Len())
	assert.Equal(t, once.Autocomplete(nil, NoLimit), twice.Autocomplete(nil, NoLimit))
	assert.Equal(t, once.String(), twice.String())
	require.NoError(t, twice.Validate())
}

func TestSimpleTreeOrdering(t *testing.T) {
	tree := NewSimple[string, rune](Sum)
	require.NoError(t, tree.Insert("b", 1, runes("b")))
	require.NoError(t, tree.Insert("a", 1, runes("a")))
	require.NoError(t, tree.Insert("c", 1, runes("c")))

	// Equal weights keep insertion order.
	assert.Equal(t, results("b", 1, "a", 1, "c", 1), tree.Autocomplete(nil, NoLimit))

	// A grown child moves ahead of lighter siblings only.
	require.NoError(t, tree.Insert("c", 1, runes("c")))
	assert.Equal(t, results("c", 2, "b", 1, "a", 1), tree.Autocomplete(nil, NoLimit))

	require.NoError(t, tree.Insert("a", 5, runes("a")))
	assert.Equal(t, results("a", 6, "c", 2, "b", 1), tree.Autocomplete(nil, NoLimit))
	require.NoError(t, tree.Validate())
}

func TestSimpleTreeRemove(t *testing.T) {
	words := map[string]float64{"car": 5, "cart": 7, "care": 2, "dog": 4, "do": 1}
	order := []string{"car", "cart", "care", "dog", "do"}

	testCases := []struct {
		prefix      string
		remaining   []Result[string]
		description string
	}{
		{"car", results("dog", 4, "do", 1), "Prefix and its extensions"},
		{"cart", results("car", 5, "dog", 4, "care", 2, "do", 1), "Single value"},
		{"d", results("cart", 7, "car", 5, "care", 2), "Whole branch"},
		{"x", results("cart", 7, "car", 5, "dog", 4, "care", 2, "do", 1), "Unknown prefix"},
		{"carts", results("cart", 7, "car", 5, "dog", 4, "care", 2, "do", 1), "Past a value"},
		{"", nil, "Everything"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			tree := NewSimple[string, rune](Sum)
			insertWords(t, tree, words, order)

			tree.Remove(runes(tc.prefix))
			require.NoError(t, tree.Validate())
			assert.Equal(t, len(tc.remaining), tree.Len())
			assert.Empty(t, tree.Autocomplete(runes(tc.prefix), NoLimit))
			got := tree.Autocomplete(nil, NoLimit)
			if tc.remaining == nil {
				assert.Empty(t, got)
				assert.Zero(t, tree.Weight())
				return
			}
			assert.Equal(t, tc.remaining, got)
		})
	}
}

func TestSimpleTreeReuseAfterClear(t *testing.T) {
	tree := NewSimple[string, rune](Average)
	assert.Equal(t, Average, tree.Mode())
	require.NoError(t, tree.Insert("ab", 2, runes("ab")))
	tree.Remove(nil)
	assert.Zero(t, tree.Len())
	assert.Empty(t, tree.String())

	require.NoError(t, tree.Insert("xy", 4, runes("xy")))
	assert.Equal(t, results("xy", 4), tree.Autocomplete(runes("x"), NoLimit))
	require.NoError(t, tree.Validate())
}

func TestInsertPreconditions(t *testing.T) {
	trees := map[string]Autocompleter[string, rune]{
		"simple":     NewSimple[string, rune](Sum, WithMaxDepth(4)),
		"compressed": NewCompressed[string, rune](Sum, WithMaxDepth(4)),
	}
	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tree.Insert("a", 0, runes("a")), ErrInvalidWeight)
			assert.ErrorIs(t, tree.Insert("a", -1, runes("a")), ErrInvalidWeight)
			assert.ErrorIs(t, tree.Insert("toolong", 1, runes("toolong")), ErrPrefixTooLong)
			assert.NoError(t, tree.Insert("four", 1, runes("four")))
			assert.Equal(t, 1, tree.Len())
		})
	}
}

func TestParse(t *testing.T) {
	mode, err := ParseWeightMode("Average")
	require.NoError(t, err)
	assert.Equal(t, Average, mode)
	_, err = ParseWeightMode("median")
	assert.Error(t, err)

	kind, err := ParseKind("simple")
	require.NoError(t, err)
	assert.Equal(t, Simple, kind)
	_, err = ParseKind("trie")
	assert.Error(t, err)

	assert.IsType(t, &SimpleTree[string, rune]{}, New[string, rune](Simple, Sum))
	assert.IsType(t, &CompressedTree[string, rune]{}, New[string, rune](Compressed, Sum))
}
