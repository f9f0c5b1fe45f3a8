package suites

import (
	ft "github.com/viscouspot/maestro-flowgen/pkg/flowtree"
)

func steps(names ...string) []ft.StepRef { return ft.Steps(names...) }

// OnboardingNegative walks every dialog of the first-launch onboarding,
// rejecting and accepting each one in turn.
func OnboardingNegative() ft.Tree {
	return ft.Tree{
		Carry: ft.CarryCumulative,
		Setup: ft.Setup{
			BeforeAll:  steps("disable_all_files_access", "clear_state"),
			BeforeEach: [][]ft.StepRef{steps("launch_stls_no_perms"), steps("launch_notif_perm")},
		},
		Groups: []ft.Group{
			{
				Name: "notifications",
				Stages: []ft.Stage{
					ft.S(
						ft.V(steps("welcome_dialog/negative", "notifications_dialog/assert")...),
						ft.Accept(steps("welcome_dialog/positive", "notifications_dialog/assert")...),
					),
					ft.S(ft.V(steps(
						"notifications_dialog/positive",
						"notifications_permission/assert",
						"back",
						"notifications_dialog/assert",
					)...)),
					ft.S(ft.V(steps(
						"notifications_dialog/positive_secondary",
						"notifications_permission/enable",
						"back",
						"notifications_dialog/positive_secondary",
					)...)),
				},
			},
			{
				Name: "all_files",
				Stages: []ft.Stage{
					ft.S(ft.V(steps(
						"welcome_dialog/positive",
						"all_files_dialog/positive",
						"all_files_permission/assert",
						"back",
						"all_files_dialog/assert",
					)...)),
					ft.S(ft.V(steps(
						"all_files_dialog/positive_secondary",
						"all_files_permission/enable",
						"back",
						"almost_there_dialog/assert",
					)...)),
				},
			},
			{
				Name: "almost_there",
				Stages: []ft.Stage{
					ft.S(
						ft.V(steps("almost_there_dialog/negative", "almost_there_dialog/assert_not")...),
						ft.Accept(steps("almost_there_dialog/positive", "pre_auth_dialog/assert")...),
					),
				},
			},
			{
				Name: "pre_auth",
				Stages: []ft.Stage{
					ft.S(
						ft.V(steps("pre_auth_dialog/negative", "pre_auth_dialog/assert_not")...),
						ft.Accept(steps("pre_auth_dialog/positive", "../auth/flows/assert")...),
					),
					ft.S(ft.V(steps("../auth/flows/github/start", "../auth/flows/github/assert")...)),
					ft.S(
						ft.V(steps("back", "pre_auth_dialog/assert")...),
						ft.Accept(steps("../auth/flows/github/auth", "../clone/flows/assert")...),
					),
				},
			},
			{
				Name: "clone",
				Stages: []ft.Stage{
					ft.S(ft.V(steps("../clone/flows/list/github")...)),
					ft.S(
						ft.V(steps(
							"../clone/flows/select_folder_dialog/negative",
							"../clone/flows/select_folder_dialog/assert_not",
						)...),
						ft.Accept(steps(
							"../clone/flows/select_folder_dialog/positive",
							"../clone/flows/select_folder/assert",
						)...),
					),
					ft.S(
						ft.V(steps(
							"../clone/flows/select_folder/negative",
							"../clone/flows/select_folder/assert_not",
							"../clone/flows/select_folder_dialog/assert_not",
							"../clone/flows/url/assert",
						)...),
						ft.Accept(steps(
							"../clone/flows/select_folder/positive",
							"../clone/flows/select_folder/assert_not",
							"../clone/flows/select_folder_dialog/assert_not",
							"auto_sync_dialog/assert",
						)...),
					),
				},
			},
			{
				Name: "auto_sync",
				Stages: []ft.Stage{
					ft.S(
						ft.V(steps("auto_sync_dialog/negative", "auto_sync_dialog/assert_not")...),
						ft.Accept(steps("../home/flows/sync_now/assert", "auto_sync_dialog/assert_not")...),
					),
				},
			},
		},
	}
}

// OnboardingPositive is the happy path through onboarding in one unit. The
// auth suites reuse its script as their before-all step.
func OnboardingPositive() ft.Tree {
	return ft.Tree{
		Setup: ft.Setup{
			BeforeAll: steps("disable_all_files_access", "clear_state"),
		},
		Groups: []ft.Group{{
			Name: "happy_path",
			Stages: []ft.Stage{ft.S(ft.V(steps(
				"launch_stls_no_perms",
				"welcome_dialog/positive",
				"notifications_dialog/positive",
				"notifications_permission/enable",
				"back",
				"notifications_dialog/positive_secondary",
				"all_files_dialog/positive",
				"all_files_permission/enable",
				"back",
				"almost_there_dialog/positive",
				"pre_auth_dialog/positive",
				"../auth/flows/github/start",
				"../auth/flows/github/assert",
				"../auth/flows/github/auth",
				"../clone/flows/list/github",
				"../clone/flows/select_folder_dialog/positive",
				"../clone/flows/select_folder/positive",
				"../clone/flows/select_folder/assert_not",
				"../clone/flows/select_folder_dialog/assert_not",
				"auto_sync_dialog/negative",
				"auto_sync_dialog/assert_not",
			)...))},
		}},
	}
}

// authSuite signs in with one git provider after a completed onboarding and
// checks the clone screen. listCheck asserts whether the provider offers a
// repository list.
func authSuite(provider, listCheck string) ft.Tree {
	return ft.Tree{
		Setup: ft.Setup{
			BeforeAll: steps("../onboarding/positive"),
		},
		Groups: []ft.Group{{
			Name: provider,
			Stages: []ft.Stage{ft.S(ft.V(steps(
				"launch_notif_perm",
				"open_auth/positive",
				provider+"/start",
				provider+"/auth",
				"../clone/flows/assert",
				listCheck,
			)...))},
		}},
	}
}
