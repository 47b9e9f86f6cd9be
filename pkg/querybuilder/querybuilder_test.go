package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderEmpty(t *testing.T) {
	clause, args := Where().SQL()
	assert.Equal(t, "", clause)
	assert.Nil(t, args)
}

func TestBuilderConjunctionOfDisjunctions(t *testing.T) {
	fullname := Or(Contains("c.fullname", "Intro"), Contains("c.fullname", "Algebra"))
	shortname := InStrings("c.shortname", []string{"MATH101", "CS1"})

	clause, args := Where(Eq("ue.userid", int64(7)), Eq("e.status", 0)).And(fullname).And(shortname).SQL()

	assert.Equal(t, " WHERE ue.userid = ? AND e.status = ? AND (LOWER(c.fullname) LIKE ? ESCAPE '!' OR LOWER(c.fullname) LIKE ? ESCAPE '!') AND c.shortname IN (?, ?)", clause)
	assert.Equal(t, []interface{}{int64(7), 0, "%intro%", "%algebra%", "MATH101", "CS1"}, args)
}

func TestContainsEscapesWildcards(t *testing.T) {
	p := Contains("name", "50%_off!")
	assert.Equal(t, []interface{}{"%50!%!_off!!%"}, p.Args)
}

func TestOrSkipsEmptyAndUnwrapsSingle(t *testing.T) {
	p := Or(Predicate{}, Eq("a", 1))
	assert.Equal(t, "a = ?", p.SQL)
	assert.True(t, Or().Empty())
}

func TestInEmptyMatchesNothing(t *testing.T) {
	p := In("id")
	assert.Equal(t, "1 = 0", p.SQL)
	assert.Empty(t, p.Args)
}

func TestBetweenIsInclusive(t *testing.T) {
	p := Between("tp.dtdue", 100, 200)
	assert.Equal(t, "(tp.dtdue >= ? AND tp.dtdue <= ?)", p.SQL)
	assert.Equal(t, []interface{}{100, 200}, p.Args)
}
