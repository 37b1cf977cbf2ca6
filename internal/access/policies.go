package access

// Table names covered by the policy set.
const (
	TableProfiles        = "profiles"
	TableRoleAssignments = "role_assignments"
	TableWorkouts        = "workouts"
	TableWorkoutDays     = "workout_days"
	TableExercises       = "exercises"
	TableExerciseSets    = "exercise_sets"
	TableRuns            = "runs"
	TableCheckins        = "checkins"
	TableStatsSnapshots  = "stats_snapshots"
)

var (
	allOps     = []Operation{OpSelect, OpInsert, OpUpdate, OpDelete}
	selectOnly = []Operation{OpSelect}
)

// Policies returns the row access rules for every domain table. A table
// without a rule is denied to every session.
func Policies() []Rule {
	owned := func(table string) Rule {
		return Rule{
			Table:       table,
			OwnerColumn: "user_id",
			OwnerOps:    allOps,
			AdminOps:    selectOnly,
			Immutable:   []string{"id", "user_id"},
		}
	}
	viaWorkout := func(table string) Rule {
		return Rule{
			Table:       table,
			Chain:       []Hop{{Column: "workout_id", Table: TableWorkouts}},
			OwnerColumn: "user_id",
			OwnerOps:    allOps,
			AdminOps:    selectOnly,
			Immutable:   []string{"id", "workout_id"},
		}
	}

	return []Rule{
		{
			Table:       TableProfiles,
			OwnerColumn: "id",
			OwnerOps:    []Operation{OpSelect, OpUpdate},
			AdminOps:    selectOnly,
			Immutable:   []string{"id", "email"},
		},
		owned(TableWorkouts),
		owned(TableRuns),
		owned(TableCheckins),
		owned(TableStatsSnapshots),
		viaWorkout(TableWorkoutDays),
		viaWorkout(TableExercises),
		{
			Table: TableExerciseSets,
			Chain: []Hop{
				{Column: "exercise_id", Table: TableExercises},
				{Column: "workout_id", Table: TableWorkouts},
			},
			OwnerColumn: "user_id",
			OwnerOps:    allOps,
			AdminOps:    selectOnly,
			Immutable:   []string{"id", "exercise_id"},
		},
		{
			Table:       TableRoleAssignments,
			OwnerColumn: "user_id",
			OwnerOps:    selectOnly,
			AdminOps:    allOps,
			Immutable:   []string{"id", "user_id"},
		},
	}
}
