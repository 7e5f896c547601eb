package people

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClassList
	}{
		{name: "json array", raw: `["10-A","10-B"]`, want: ClassList{"10-A", "10-B"}},
		{name: "comma string", raw: `"10-A, 10-B"`, want: ClassList{"10-A", "10-B"}},
		{name: "single string", raw: `"10-A"`, want: ClassList{"10-A"}},
		{name: "messy spacing", raw: `" 10-A ,, 10-B , "`, want: ClassList{"10-A", "10-B"}},
		{name: "empty string", raw: `""`, want: nil},
		{name: "null", raw: `null`, want: nil},
		{name: "empty array", raw: `[]`, want: ClassList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ClassList
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTeacherClassesBothShapes(t *testing.T) {
	var fromArray, fromString Teacher
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"A","teacherId":"T1","classes":["10-A","10-B"]}`), &fromArray))
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"A","teacherId":"T1","classes":"10-A, 10-B"}`), &fromString))
	assert.Equal(t, fromArray.Classes, fromString.Classes)
}

func TestPrependRecent(t *testing.T) {
	var history []RecentEntry
	for i := 0; i < 40; i++ {
		history = prependRecent(history, RecentEntry{Date: fmt.Sprintf("day-%d", i)})
	}

	require.Len(t, history, recentAttendanceCap)
	assert.Equal(t, "day-39", history[0].Date, "newest entry first")
	assert.Equal(t, "day-10", history[len(history)-1].Date, "oldest surviving entry")
}

func TestName(t *testing.T) {
	assert.Equal(t, "Asha Rao", Student{FirstName: "Asha", LastName: "Rao"}.Name())
	assert.Equal(t, "Asha", Student{FirstName: "Asha"}.Name())
	assert.Equal(t, "Iyer", Teacher{LastName: "Iyer"}.Name())
}

func TestFaceImagesEmpty(t *testing.T) {
	assert.True(t, FaceImages{}.Empty())
	assert.False(t, FaceImages{Front: "data"}.Empty())
}
