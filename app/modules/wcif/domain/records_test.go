package wcifdomain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultDecode(t *testing.T) {
	input := `{"best": -1, "average": 0, "attempts": [{"result": 1234, "reconstruction": null}], "personId": 7, "ranking": null}`

	var got Result
	require.NoError(t, json.Unmarshal([]byte(input), &got))

	want := Result{
		PersonID: 7,
		Attempts: []Attempt{{Result: Ok(1234)}},
		Best:     DNF,
		Average:  Skip,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Result mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(encoded))
}

func TestAdvancementConditionDecode(t *testing.T) {
	tests := []struct {
		input string
		want  AdvancementCondition
	}{
		{input: `{"type":"attemptResult","level":1500}`, want: AttemptResultAdvancement(1500)},
		{input: `{"type":"percent","level":75}`, want: PercentAdvancement(75)},
		{input: `{"type":"ranking","level":16}`, want: RankingAdvancement(16)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got AdvancementCondition
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)

			encoded, err := json.Marshal(got)
			require.NoError(t, err)
			assert.Equal(t, tt.input, string(encoded))
		})
	}
}

func TestAdvancementConditionRejectsUnknownType(t *testing.T) {
	var got AdvancementCondition
	err := json.Unmarshal([]byte(`{"type":"vibes","level":3}`), &got)
	assert.ErrorIs(t, err, ErrUnknownAdvancementType)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "type", pe.Path)
}

func TestRecordDecodingRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantPath string
	}{
		{
			name:     "missing required field",
			input:    `{"personId": 7, "ranking": null, "attempts": [], "best": 0}`,
			wantErr:  ErrMissingField,
			wantPath: "average",
		},
		{
			name:     "duplicate key",
			input:    `{"personId": 7, "personId": 8, "ranking": null, "attempts": [], "best": 0, "average": 0}`,
			wantErr:  ErrDuplicateKey,
			wantPath: "personId",
		},
		{
			name:     "null required field",
			input:    `{"personId": null, "ranking": null, "attempts": [], "best": 0, "average": 0}`,
			wantErr:  ErrNullField,
			wantPath: "personId",
		},
		{
			name:     "null sequence",
			input:    `{"personId": 7, "ranking": null, "attempts": null, "best": 0, "average": 0}`,
			wantErr:  ErrNullField,
			wantPath: "attempts",
		},
		{
			name:     "bad nested attempt",
			input:    `{"personId": 7, "ranking": null, "attempts": [{"result": 1}, {"result": -9}], "best": 0, "average": 0}`,
			wantErr:  ErrMalformedAttemptResult,
			wantPath: "attempts[1].result",
		},
		{
			name:     "sequence of wrong shape",
			input:    `{"personId": 7, "ranking": null, "attempts": {}, "best": 0, "average": 0}`,
			wantErr:  ErrNotArray,
			wantPath: "attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Result
			err := json.Unmarshal([]byte(tt.input), &got)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var pe *PathError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantPath, pe.Path)
		})
	}
}

func TestRecordRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[]`, `"x"`, `12`, `null`} {
		t.Run(input, func(t *testing.T) {
			var got Avatar
			err := json.Unmarshal([]byte(input), &got)
			assert.ErrorIs(t, err, ErrNotObject)
		})
	}
}

func TestRecordIgnoresUnknownKeys(t *testing.T) {
	input := `{"url":"https://a/b.jpg","thumbUrl":"https://a/b_thumb.jpg","isDefault":false,"extra":{"nested":[1,2]}}`

	var got Avatar
	require.NoError(t, json.Unmarshal([]byte(input), &got))
	assert.Equal(t, Avatar{URL: "https://a/b.jpg", ThumbURL: "https://a/b_thumb.jpg"}, got)
}

func TestPersonDecode(t *testing.T) {
	input := `{
		"registrantId": 3,
		"name": "Sam Solver",
		"wcaUserId": 991,
		"wcaId": "2018SOLV01",
		"countryIso2": "GB",
		"gender": "o",
		"birthdate": null,
		"email": "sam@example.com",
		"avatar": null,
		"roles": ["delegate", "trainee-delegate", "organizer", "custom-role"],
		"registration": {
			"wcaRegistrationId": 55,
			"eventIds": ["333", "222"],
			"status": "accepted",
			"guests": 1,
			"comments": null,
			"isCompeting": true
		},
		"assignments": [{"activityId": 17, "assignmentCode": "staff-photographer", "stationNumber": null}],
		"personalBests": [{"eventId": "333", "best": 812, "worldRanking": 4000, "continentalRanking": 900, "nationalRanking": 80, "type": "single"}],
		"extensions": [{"id": "groupifier.PersonExtension", "specUrl": "https://example.com/spec", "data": {"stations": [ 1, 2 ]}}]
	}`

	var got Person
	require.NoError(t, json.Unmarshal([]byte(input), &got))

	assert.Equal(t, []Role{RoleDelegate, RoleTraineeDelegate, RoleOrganizer, Role("custom-role")}, got.Roles)
	require.NotNil(t, got.WcaID)
	assert.Equal(t, "2018SOLV01", got.WcaID.String())
	require.NotNil(t, got.RegistrantID)
	assert.Equal(t, uint64(3), *got.RegistrantID)
	assert.True(t, got.IsDelegate())
	assert.True(t, got.HasRole(RoleOrganizer))
	assert.True(t, got.IsCompeting())
	assert.Equal(t, AssignmentCode("staff-photographer"), got.Assignments[0].AssignmentCode)
	assert.True(t, Ok(812).Equal(got.PersonalBests[0].Best))

	require.Len(t, got.Extensions, 1)
	assert.Equal(t, "groupifier.PersonExtension", got.Extensions[0].ID())
	assert.Equal(t, "https://example.com/spec", got.Extensions[0].SpecURL())
	var data struct {
		Stations []int `json:"stations"`
	}
	require.NoError(t, got.Extensions[0].DecodeData(&data))
	assert.Equal(t, []int{1, 2}, data.Stations)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	var again Person
	require.NoError(t, json.Unmarshal(encoded, &again))
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestPersonRejectsBadWCAID(t *testing.T) {
	input := `{"registrantId":1,"name":"x","wcaUserId":1,"wcaId":"2018ABC01","countryIso2":"US","gender":"m",
		"roles":[],"assignments":[],"personalBests":[],"extensions":[]}`

	var got Person
	err := json.Unmarshal([]byte(input), &got)
	assert.ErrorIs(t, err, ErrMalformedWCAID)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "wcaId", pe.Path)
}

func TestRoundFormat(t *testing.T) {
	var r Round
	input := `{"id":"333-r1","format":"a","timeLimit":{"centiseconds":60000,"cumulativeRoundIds":[]},
		"cutoff":{"numberOfAttempts":2,"attemptResult":3000},"advancementCondition":{"type":"ranking","level":16},
		"results":[],"scrambleSetCount":2,"extensions":[]}`
	require.NoError(t, json.Unmarshal([]byte(input), &r))
	assert.Equal(t, FormatAverage, r.Format)
	assert.Equal(t, 5, r.Format.Attempts())
	assert.True(t, Ok(3000).Equal(r.Cutoff.AttemptResult))
	assert.Equal(t, RankingAdvancement(16), *r.AdvancementCondition)
	assert.True(t, r.Code().Matches("333", 1))

	err := json.Unmarshal([]byte(`{"id":"333-r1","format":"ab","results":[],"scrambleSetCount":1,"extensions":[]}`), &r)
	assert.ErrorIs(t, err, ErrInvalidRoundFormat)
}

func TestEventQualificationPayload(t *testing.T) {
	input := `{"id":"333","rounds":[],"competitorLimit":null,"qualification":{ "type" : "ranking", "resultType":"single", "level": 100 },"extensions":[]}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(input), &e))
	assert.Equal(t, `{"type":"ranking","resultType":"single","level":100}`, string(e.Qualification))

	encoded, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"333","rounds":[],"competitorLimit":null,"qualification":{"type":"ranking","resultType":"single","level":100},"extensions":[]}`, string(encoded))
}

func TestMarshalEmitsEmptySequences(t *testing.T) {
	encoded, err := json.Marshal(Room{ID: 1, Name: "Main", Color: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"Main","color":"#ff0000","activities":[],"extensions":[]}`, string(encoded))
}

func TestNewExtension(t *testing.T) {
	ext, err := NewExtension("acme.Room", "https://acme.test/spec", map[string]int{"tables": 4})
	require.NoError(t, err)
	assert.Equal(t, "acme.Room", ext.ID())

	found, ok := FindExtension([]Extension{ext}, "acme.Room")
	require.True(t, ok)
	var data map[string]int
	require.NoError(t, found.DecodeData(&data))
	assert.Equal(t, 4, data["tables"])

	_, ok = FindExtension([]Extension{ext}, "other")
	assert.False(t, ok)
}
