package keyword

var defaultTable = MustNew([]Entry{
	{Phrase: "무서운", Keywords: []string{"귀신", "괴물", "뱀", "호랑이", "추락", "쫓기는"}},
	{Phrase: "무서운 꿈", Keywords: []string{"귀신", "괴물", "추락", "쫓기는", "죽음"}},
	{Phrase: "좋은", Keywords: []string{"돼지", "용", "돈", "똥", "불"}},
	{Phrase: "좋은 꿈", Keywords: []string{"돼지", "용", "돈", "똥", "조상"}},
	{Phrase: "길몽", Keywords: []string{"돼지", "용", "똥", "불", "조상"}},
	{Phrase: "흉몽", Keywords: []string{"이빨", "추락", "장례식", "시체"}},
	{Phrase: "돈", Keywords: []string{"지갑", "금", "복권", "돼지"}},
	{Phrase: "재물", Keywords: []string{"돼지", "똥", "금", "돈", "불"}},
	{Phrase: "연애", Keywords: []string{"연인", "결혼", "키스", "반지", "꽃"}},
	{Phrase: "사랑", Keywords: []string{"연인", "결혼", "키스", "고백"}},
	{Phrase: "임신", Keywords: []string{"태몽", "아기", "복숭아", "뱀", "용"}},
	{Phrase: "태몽", Keywords: []string{"용", "호랑이", "복숭아", "뱀", "돼지"}},
	{Phrase: "죽음", Keywords: []string{"장례식", "시체", "관", "죽은 사람"}},
	{Phrase: "이별", Keywords: []string{"헤어짐", "전 애인", "눈물"}},
	{Phrase: "시험", Keywords: []string{"합격", "학교", "낙방"}},
	{Phrase: "물", Keywords: []string{"바다", "강", "홍수", "비"}},
	{Phrase: "하늘", Keywords: []string{"비행기", "날개", "새", "별"}},
	{Phrase: "날아다니는", Keywords: []string{"하늘", "새", "비행기", "날개"}},
	{Phrase: "동물", Keywords: []string{"뱀", "돼지", "개", "고양이", "호랑이", "용"}},
	{Phrase: "뱀", Keywords: []string{"구렁이", "독사", "이무기"}},
	{Phrase: "이빨", Keywords: []string{"치아", "이가 빠지는"}},
})

var defaultNames = []string{
	"뱀", "돼지", "용", "호랑이", "개", "고양이", "물고기", "새",
	"이빨", "똥", "돈", "불", "물", "바다", "귀신", "시체",
	"결혼", "아기", "임신", "시험", "집", "자동차", "비행기", "추락",
	"무지개", "꽃", "반지", "조상", "대통령", "연예인",
}

// Default returns the built-in expansion table.
func Default() *Table { return defaultTable }

// DefaultNames returns the built-in list of common symbol names used for autocomplete.
func DefaultNames() []string {
	out := make([]string, len(defaultNames))
	copy(out, defaultNames)
	return out
}
