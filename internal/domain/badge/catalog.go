package badge

import (
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ═══════════════════════════════════════════════════════════════════════════
// Badge catalog
// ═══════════════════════════════════════════════════════════════════════════

// The catalog is the product's full badge set. IDs are stable and never
// reused; condition keys are stable across releases because they key the
// per-learner unlock map in storage. Order here is the product display order.

func streakBadge(id int, key, name, task, flavor, image string, days int) Definition {
	return Definition{
		ID: mustBadgeID(id), Category: CategoryBehavior, Kind: KindStreak,
		ConditionKey: mustConditionKey(key),
		Name:         name, Task: task, FlavorText: flavor, Image: image,
		Target: days, Available: true,
	}
}

func submissionBadge(id int, key, name, task, flavor, image string, count int) Definition {
	return Definition{
		ID: mustBadgeID(id), Category: CategoryProgress, Kind: KindSubmissionCount,
		ConditionKey: mustConditionKey(key),
		Name:         name, Task: task, FlavorText: flavor, Image: image,
		Target: count, Available: true,
	}
}

func unitBadge(id int, key, name, task, flavor, image, unitSlug string) Definition {
	return Definition{
		ID: mustBadgeID(id), Category: CategoryProgress, Kind: KindUnitCompleted,
		ConditionKey: mustConditionKey(key),
		Name:         name, Task: task, FlavorText: flavor, Image: image,
		UnitSlug: unitSlug, Available: true,
	}
}

func factBadge(id int, category Category, key, name, task, flavor, image string, fact learner.ExternalFact) Definition {
	return Definition{
		ID: mustBadgeID(id), Category: category, Kind: KindExternalFact,
		ConditionKey: mustConditionKey(key),
		Name:         name, Task: task, FlavorText: flavor, Image: image,
		Fact: fact, Target: 1, Available: true,
	}
}

func windowBadge(id int, category Category, key, name, task, flavor, image string, w stats.Window, count int, hidden bool) Definition {
	return Definition{
		ID: mustBadgeID(id), Category: category, Kind: KindWindowCount,
		ConditionKey: mustConditionKey(key),
		Name:         name, Task: task, FlavorText: flavor, Image: image,
		Window: w, Target: count, Hidden: hidden, Available: true,
	}
}

// Catalog returns the full immutable badge set.
func Catalog() []Definition {
	return []Definition{
		streakBadge(1, "streak3Days", "Persistent",
			"Study for 3 days in a row",
			"You learned for three days straight. Not bad!",
			"/badge/images/01.png", 3),
		streakBadge(2, "streak7Days", "Determined",
			"Study for 7 days in a row",
			"A whole week without taking a break. Respect.",
			"/badge/images/02.png", 7),
		streakBadge(3, "streak30Days", "Purposeful",
			"Study for 30 days in a row",
			"A month without stopping? You're running marathons in your free time, right?",
			"/badge/images/03.png", 30),
		streakBadge(4, "streak100Days", "Tireless",
			"Study for 100 days in a row",
			"A hundred days without breaking a sweat. We are truly impressed.",
			"/badge/images/04.png", 100),
		streakBadge(5, "streak365Days", "Iron-Willed",
			"Study for 365 days in a row",
			"You started programming every day for an entire year. We couldn't be more proud of you",
			"/badge/images/05.png", 365),

		{
			ID: mustBadgeID(10), Category: CategoryFeedback, Kind: KindMoodFeedback,
			ConditionKey: mustConditionKey("gaveAtLeast3MoodFeedback"),
			Name:         "Source of Inspiration",
			Task:         "Click feedback emojis on at least 3 lessons",
			FlavorText:   "Thanks! You just helped us make this school even better.",
			Image:        "/badge/images/10.png",
			Target:       3, Available: true,
		},
		{
			ID: mustBadgeID(11), Category: CategoryFeedback, Kind: KindSurveyFeedback,
			ConditionKey: mustConditionKey("gaveAtLeast1InlineSurveyFeedbacks"),
			Name:         "Seeing Clearly",
			Task:         "Give feedback on at least one in-line survey",
			FlavorText:   "Hey, thanks! We want you to know that your answers matter a lot to us.",
			Image:        "/badge/images/11.png",
			Target:       1, Available: true,
		},

		factBadge(12, CategoryOnboarding, "slackRegistration", "Hive Mind",
			"Join the Slack community",
			"We're here every day. Thanks for joining us!",
			"/badge/images/12.png", learner.FactCommunityRegistration),

		submissionBadge(33, "firstAssignment", "The Hardest of All",
			"Submit at least 1 assignment",
			"The first step is always the hardest. We're proud of you.",
			"/badge/images/33.png", 1),
		submissionBadge(34, "fifthAssignment", "Gaining Momentum",
			"Submit at least 5 assignments",
			"Keep up the good work. You'll get this coding thing in no time.",
			"/badge/images/34.png", 5),
		submissionBadge(35, "twentyFifthAssignment", "Foundation",
			"Submit at least 25 assignments",
			"You're making great strides forward.",
			"/badge/images/35.png", 25),
		submissionBadge(36, "oneHundredthAssignment", "Solid Basics",
			"Submit at least 100 assignments",
			"A perfect 100. Remember when you knew nothing about programming? Seems distant, right?",
			"/badge/images/36.png", 100),
		submissionBadge(37, "threeHundredthAssignment", "Getting There",
			"Submit at least 300 assignments",
			"All the Spartans would be proud. We are too.",
			"/badge/images/37.png", 300),

		factBadge(40, CategoryReferral, "referFirstFriend", "Together",
			"Invite a friend",
			"One of us. One of us.",
			"/badge/images/40.png", learner.FactReferredFirstFriend),

		unitBadge(13, "bookWelcome", "Baby Steps",
			"Complete the \"Welcome\" Book",
			"Congratulations! You just took your first steps towards becoming a programmer.",
			"/badge/images/13.png", "welcome-project"),
		unitBadge(14, "bookDeveloperTools", "Tools at the Ready",
			"Complete the \"Developer Tools\" Book",
			"A developer needs an environment. Good job setting up GitHub and JS Bin!",
			"/badge/images/14.png", "hello-codeberry"),
		unitBadge(15, "bookHTMLBasics", "The Language of Structure",
			"Complete the \"HTML Basics\" Book",
			"HTML is the foundation of everything on the web. Now you can build on that.",
			"/badge/images/15.png", "html-basics"),
		unitBadge(16, "bookBasicsOfCSS", "The Language of Presentation",
			"Complete the \"Basics of CSS\" Book",
			"Hey good-looking, congratulations on learning the basics of CSS3!",
			"/badge/images/16.png", "css-basics"),
		unitBadge(17, "bookMediumArticle", "Published Author",
			"Complete the \"Medium Article\" Book",
			"Congrats on completing the Medium article!",
			"/badge/images/17.png", "medium-article-v2"),
		unitBadge(18, "bookMondrian", "Painting like Mondrian",
			"Complete the \"Mondrian\" Book",
			"Have you painted before? You seem talented.",
			"/badge/images/18.png", "mondrian-painting"),
		unitBadge(19, "bookAboutMeSite", "Calling Card",
			"Complete the \"About Me Site\" Book",
			"Everybody needs a personal site. Now you have one, too.",
			"/badge/images/19.png", "about-me"),
		unitBadge(20, "bookResponsiveWebDesign", "From XS to XXL",
			"Complete the \"Responsive Web Design\" Book",
			"From the tiniest of smartphones to the biggest 4K TVs - you can now design for them all.",
			"/badge/images/20.png", "responsive-web-design"),
		unitBadge(21, "bookEverythingInItsPlace", "Floating Boxes",
			"Complete the \"Everything in Its Place\" Book",
			"Good job laying out those boxes! Gutenberg would be proud.",
			"/badge/images/21.png", "positioning"),
		unitBadge(22, "bookCommonComponents", "Recycled",
			"Complete the \"Common Components\" Book",
			"Don't reinvent the wheel, you're smarter than that.",
			"/badge/images/22.png", "common-components"),
		unitBadge(23, "bookWeddingLanding", "A Happy Couple",
			"Complete the \"Wedding Landing\" Book",
			"A beautiful page for a beautiful day. Nice work on that wedding page!",
			"/badge/images/23.png", "wedding-landing"),
		unitBadge(24, "bookDesktopEditor", "The Big Move",
			"Complete the \"Desktop Editor\" Book",
			"A serious pro needs serious tools.",
			"/badge/images/24.png", "desktop-editor"),
		unitBadge(25, "bookGitBasics", "Branching Tree",
			"Complete the \"Git Basics\" Book",
			"Git? No problem.",
			"/badge/images/25.png", "git-basics"),
		unitBadge(26, "bookJSBasicsI", "A Different Kind of Calculator",
			"Complete the \"JS Basics I (Data Types)\" Book",
			"Who needs a calculator when you've got JavaScript?",
			"/badge/images/26.png", "javascript-basics-1"),
		unitBadge(27, "bookJSBasicsII", "X, Y, and Z",
			"Complete the \"JS Basics II (Variables)\" Book",
			"Getting the hang of variables is an important step. We're proud of you.",
			"/badge/images/27.png", "javascript-basics-2"),
		unitBadge(28, "bookJSBasicsIII", "Deja Vu",
			"Complete the \"JS Basics III (Loops)\" Book",
			"Am I repeating myself? Maybe we are in a loop.",
			"/badge/images/28.png", "javascript-basics-3"),
		unitBadge(29, "bookJSBasicsIV", "Red Pill, Blue Pill",
			"Complete the \"JS Basics IV (Conditionals)\" Book",
			"Decisions are hard.",
			"/badge/images/29.png", "javascript-basics-4"),
		unitBadge(30, "bookJSBasicsV", "The Little Robots",
			"Complete the \"JS Basics V (Functions)\" Book",
			"Everything is easier with functions. Trust us.",
			"/badge/images/30.png", "javascript-basics-5"),
		unitBadge(31, "bookJSBasicsVI", "The Ultimate List",
			"Complete the \"JS Basics VI (Arrays)\" Book",
			"Isn't that neat? Everything in order, on a beautiful list. *Sigh*",
			"/badge/images/31.png", "javascript-basics-6"),
		unitBadge(32, "bookJSBasicsVII", "Librarian",
			"Complete the \"JS Basics VII (Objects)\" Book",
			"Objects. Objects everywhere.",
			"/badge/images/32.png", "javascript-basics-7"),

		factBadge(9, CategoryFeedback, "discoveredBug", "Dr. Watson",
			"Discover a bug and report it to customer support",
			"No detail can escape you. You could moonlight as a detective.",
			"/badge/images/09.png", learner.FactDiscoveredBug),
		factBadge(41, CategoryReferral, "wroteBlogPost", "Messenger",
			"Write a blog post about BerryLearn",
			"Bearer of good or bad news. Either way, thanks for the post!",
			"/badge/images/41.png", learner.FactWroteBlogPost),
		factBadge(42, CategoryReferral, "wroteFacebookReview", "Trendsetter",
			"Review BerryLearn on Facebook",
			"Tell us, how does it feel to be an influencer?",
			"/badge/images/42.png", learner.FactWroteReview),

		windowBadge(6, CategoryBehavior, "submissionsMadeBetween10PMAnd3AM", "Night Owl",
			"Submit at least 10 assignments between 10PM and 3AM",
			"Pulling an all-nighter? You run on caffeine and code, don't you?",
			"/badge/images/06.png", stats.WindowNight, 10, false),
		windowBadge(7, CategoryBehavior, "submissionsMadeBetween3AMAnd7AM", "Early Bird",
			"Submit at least 10 assignments between 3AM and 7AM",
			"Gets the worm. Or maybe this sweet badge.",
			"/badge/images/07.png", stats.WindowEarlyMorning, 10, false),
		windowBadge(8, CategoryBehavior, "submissionsMadeOnWeekends", "Weekend Warrior",
			"Submit at least 10 assignments on the weekends",
			"While others relax, you push ahead. Impressive.",
			"/badge/images/08.png", stats.WindowWeekend, 10, false),
		windowBadge(38, CategoryRandom, "submissionMadeOnFridayThe13th", "Lucky",
			"HIDDEN",
			"Have you seen our black cat? We haven't seen him all day.",
			"/badge/images/38.png", stats.WindowUnluckyDay, 1, true),
		windowBadge(39, CategoryRandom, "submissionMadeOnNewYearsDay", "A Fresh Start",
			"HIDDEN",
			"Everything will be different this time. No, seriously.",
			"/badge/images/39.png", stats.WindowNewYearsDay, 1, true),
	}
}
