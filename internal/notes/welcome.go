package notes

// WelcomeTitle is the title of the note seeded into an empty store.
const WelcomeTitle = "Welcome to Your Notes"

// WelcomeContent is the markup of the seeded note.
const WelcomeContent = `<h1>Welcome to sidenotes!</h1>` +
	`<p>This is your first note. Here are some things you can do:</p>` +
	`<h2>Formatting</h2>` +
	`<p>• <b>Bold text</b> (ctrl+b)<br>` +
	`• <i>Italic text</i> (alt+i)<br>` +
	`• <u>Underlined text</u> (ctrl+u)<br>` +
	`• <s>Strikethrough text</s> (alt+s)</p>` +
	`<h2>Lists</h2>` +
	`<p>• Bullet points<br>` +
	`• Another point</p>` +
	`<p>1. Numbered lists<br>` +
	`2. Press enter to continue them<br>` +
	`    1. Tab nests an item</p>` +
	`<h3>Features</h3>` +
	`<p>• Auto-save two seconds after you stop typing<br>` +
	`• Background variants (b in the list)<br>` +
	`• Search with /</p>` +
	`<p>Start writing your thoughts and ideas. Your notes are saved automatically!</p>`
